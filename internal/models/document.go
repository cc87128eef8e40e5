// Package models defines core data structures for documents, passages, and answers.
package models

import "time"

// Document represents an ingested document. Documents are immutable once
// stored; there is no update or delete operation.
type Document struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	IngestedAt time.Time `json:"ingested_at" db:"ingested_at"`
}
