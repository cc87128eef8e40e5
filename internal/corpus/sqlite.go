package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/baudhigan/AI-driven-Chatbot/internal/models"
)

// SQLiteStore implements Store using SQLite. Positions are explicit row
// keys assigned at append time inside the transaction, so concurrent
// appends cannot interleave and positions are dense from zero.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if they do not
// exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT,
		ingested_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_ingested_at ON documents(ingested_at);

	CREATE TABLE IF NOT EXISTS passages (
		position INTEGER PRIMARY KEY,
		document_id TEXT NOT NULL,
		text TEXT NOT NULL,
		FOREIGN KEY (document_id) REFERENCES documents(id)
	);

	CREATE INDEX IF NOT EXISTS idx_passages_document_id ON passages(document_id);
	`
	_, err := db.Exec(schema)
	return err
}

// AppendDocument records doc and inserts its entries at the next free
// positions, all inside one transaction, so a document row can never be
// left behind without its passages. The position counter is read inside
// the transaction so two concurrent appends cannot claim the same rows.
// Document IDs must be unique; documents are immutable once recorded.
func (s *SQLiteStore) AppendDocument(ctx context.Context, doc *models.Document, entries []Entry) error {
	if doc.IngestedAt.IsZero() {
		doc.IngestedAt = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, title, ingested_at) VALUES (?, ?, ?)`,
		doc.ID, doc.Title, doc.IngestedAt,
	); err != nil {
		return fmt.Errorf("record document %s: %w", doc.ID, err)
	}

	var base int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages`).Scan(&base); err != nil {
		return fmt.Errorf("count passages: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO passages (position, document_id, text) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, base+i, e.DocumentID, e.Text); err != nil {
			return fmt.Errorf("insert passage %d: %w", base+i, err)
		}
	}
	return tx.Commit()
}

// Get returns the entry at position, or ErrOutOfRange when position is at
// or past the current length.
func (s *SQLiteStore) Get(ctx context.Context, position int) (Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT document_id, text FROM passages WHERE position = ?`, position,
	).Scan(&e.DocumentID, &e.Text)
	if err == sql.ErrNoRows {
		return Entry{}, fmt.Errorf("%w: position %d", ErrOutOfRange, position)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get passage %d: %w", position, err)
	}
	return e, nil
}

// Count returns the number of entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages`).Scan(&n)
	return n, err
}

// ListDocuments returns up to limit documents, most recent first.
func (s *SQLiteStore) ListDocuments(ctx context.Context, limit int) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, ingested_at FROM documents ORDER BY ingested_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.IngestedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// CountDocuments returns the number of ingested documents.
func (s *SQLiteStore) CountDocuments(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
