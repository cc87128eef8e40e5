package utils

import "testing"

func TestSnippet(t *testing.T) {
	if Snippet("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if got := Snippet("hello world", 5); got != "hello" {
		t.Errorf("got %q", got)
	}
	if Snippet("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	// Rune-aligned cut for multi-byte text
	if got := Snippet("héllo", 2); got != "hé" {
		t.Errorf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("got %q", got)
	}
}
