// Package vector provides vector index and nearest-neighbor search.
package vector

import (
	"context"
	"errors"
)

// ErrEmptyIndex is returned by Search when no vectors have been inserted.
// It is an expected user-facing condition (querying before any ingest),
// not an internal fault.
var ErrEmptyIndex = errors.New("vector index is empty")

// ErrDimensionMismatch is returned when an inserted or query vector's width
// disagrees with the index's fixed dimension. This is a fatal
// misconfiguration of the embedder/index pair and is never retried.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Match is a single nearest-neighbor hit. Row is the index row position,
// which joins 1:1 against the corpus store.
type Match struct {
	Row      int
	Distance float32 // squared Euclidean distance; smaller is closer
}

// Index stores fixed-dimension vectors and supports insertion and k-nearest-
// neighbor search. Row positions are assigned in insertion order starting
// at zero and are never reused.
type Index interface {
	// Insert appends vectors in argument order and returns their row
	// positions (prior row count + argument index).
	Insert(ctx context.Context, vectors [][]float32) ([]int, error)
	// Search returns up to k matches sorted by ascending distance. Returns
	// ErrEmptyIndex when the index holds no vectors; returns fewer than k
	// matches when the index holds fewer than k vectors.
	Search(ctx context.Context, query []float32, k int) ([]Match, error)
	// Rows returns the number of vectors in the index.
	Rows() int
	// Dimensions returns the fixed vector width, or 0 before the first
	// insert fixes it.
	Dimensions() int
	Save(path string) error
	Load(path string) error
	Close() error
}
