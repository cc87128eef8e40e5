package utils

// Snippet returns the first maxLen runes of s. Used for bounded-length
// source citations; the cut is rune-aligned so multi-byte characters are
// never split. If maxLen is 0 or negative, returns s unchanged.
func Snippet(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i]
		}
		n++
	}
	return s
}

// Truncate returns s truncated to maxLen characters, with "..." appended if
// truncated. If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
