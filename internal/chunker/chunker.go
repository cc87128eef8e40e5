// Package chunker splits document text into overlapping token windows.
package chunker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig indicates a chunk size/overlap combination that violates
// 0 <= overlap < size.
var ErrInvalidConfig = errors.New("invalid chunker configuration")

// Chunker splits text into overlapping fixed-size chunks measured in
// whitespace-delimited tokens. Chunking is a pure function of the input.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given window size and overlap, both
// in tokens. Returns ErrInvalidConfig unless 0 <= overlap < size.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must satisfy 0 <= overlap < size, got size=%d overlap=%d", ErrInvalidConfig, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the window size in tokens.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the window overlap in tokens.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits text into consecutive windows of up to size tokens, each
// window starting size-overlap tokens after the previous one. The final
// window may be shorter. Empty or whitespace-only text yields no chunks;
// any other text yields at least one.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := c.size - c.overlap
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end >= len(words) {
			break
		}
	}
	return chunks
}
