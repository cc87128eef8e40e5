// Package corpus provides the append-only mapping from vector index row
// positions to document IDs and chunk text. The vector index returns only
// row positions; this store holds the payload those positions refer to, so
// its length must always equal the index's row count.
package corpus

import (
	"context"
	"errors"

	"github.com/baudhigan/AI-driven-Chatbot/internal/models"
)

// ErrOutOfRange is returned by Get for a position past the end of the
// corpus. At query time this indicates a corpus/index desync, which is an
// internal invariant violation rather than a user error.
var ErrOutOfRange = errors.New("corpus position out of range")

// Entry pairs a chunk's text with its originating document.
type Entry struct {
	DocumentID string
	Text       string
}

// Store is an append-only ordered sequence of entries, 0-indexed to match
// vector index row positions 1:1. Entries are never updated or removed.
type Store interface {
	// AppendDocument records doc and adds its entries at positions
	// count..count+len(entries)-1 in a single transaction: the document
	// row and all entries land together or not at all.
	AppendDocument(ctx context.Context, doc *models.Document, entries []Entry) error
	// Get returns the entry at position, or ErrOutOfRange.
	Get(ctx context.Context, position int) (Entry, error)
	// Count returns the number of entries.
	Count(ctx context.Context) (int, error)
	// ListDocuments returns ingested documents, most recent first.
	ListDocuments(ctx context.Context, limit int) ([]*models.Document, error)
	// CountDocuments returns the number of ingested documents.
	CountDocuments(ctx context.Context) (int64, error)
	Close() error
}
