package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestWatcher_IngestsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	var ingested []string
	var mu sync.Mutex
	onIngest := func(path string) {
		mu.Lock()
		ingested = append(ingested, path)
		mu.Unlock()
	}

	w := NewWatcher([]string{dir}, []string{".txt"}, onIngest, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	fPath := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(fPath, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		count := len(ingested)
		mu.Unlock()
		if count >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no ingest callback within deadline")
		}
		time.Sleep(20 * time.Millisecond)
	}
	mu.Lock()
	got := ingested[0]
	mu.Unlock()
	if got != fPath {
		t.Errorf("ingested %q, want %q", got, fPath)
	}
}

func TestWatcher_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	var ingested []string
	var mu sync.Mutex
	onIngest := func(path string) {
		mu.Lock()
		ingested = append(ingested, path)
		mu.Unlock()
	}

	w := NewWatcher([]string{dir}, []string{".txt"}, onIngest, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "ignore.bin"), []byte{0x1}, 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	count := len(ingested)
	mu.Unlock()
	if count != 0 {
		t.Errorf("expected no ingests for filtered extension, got %d", count)
	}
}

func TestWatcher_CreatesMissingDropFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	w := NewWatcher([]string{dir}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("drop folder was not created: %v", err)
	}
	dirs := w.Directories()
	if len(dirs) != 1 || dirs[0] != dir {
		t.Errorf("Directories() = %v", dirs)
	}
}

func TestWatcher_SyncExistingFiles(t *testing.T) {
	dir := t.TempDir()
	pre := filepath.Join(dir, "already-there.md")
	if err := os.WriteFile(pre, []byte("existing"), 0600); err != nil {
		t.Fatal(err)
	}

	var ingested []string
	var mu sync.Mutex
	w := NewWatcher([]string{dir}, []string{".md"}, func(path string) {
		mu.Lock()
		ingested = append(ingested, path)
		mu.Unlock()
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.SyncExistingFiles()
	mu.Lock()
	defer mu.Unlock()
	if len(ingested) != 1 || ingested[0] != pre {
		t.Errorf("ingested = %v, want [%s]", ingested, pre)
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.txt", []string{".txt"}, true},
		{"/a/b.TXT", []string{".txt"}, true},
		{"/a/b.md", []string{".txt"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher([]string{t.TempDir()}, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
