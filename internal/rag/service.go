// Package rag orchestrates ingestion, retrieval, and answer synthesis over
// the vector index and corpus store pair.
package rag

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baudhigan/AI-driven-Chatbot/internal/chunker"
	"github.com/baudhigan/AI-driven-Chatbot/internal/corpus"
	"github.com/baudhigan/AI-driven-Chatbot/internal/embedding"
	"github.com/baudhigan/AI-driven-Chatbot/internal/models"
	"github.com/baudhigan/AI-driven-Chatbot/internal/synthesizer"
	"github.com/baudhigan/AI-driven-Chatbot/internal/vector"
)

// ErrEmptyDocument is returned when a document yields zero chunks. An
// ingest that would index nothing is rejected rather than silently
// accepted.
var ErrEmptyDocument = errors.New("document produced no chunks")

// ErrCorruptState is returned at startup when the persisted vector index
// and corpus store disagree on length. The pair is refused as-is rather
// than silently truncated.
var ErrCorruptState = errors.New("vector index and corpus store are inconsistent")

// Config holds retrieval service settings.
type Config struct {
	ChunkSize    int    // tokens per chunk
	ChunkOverlap int    // token overlap between consecutive chunks
	TopK         int    // passages retrieved per query
	IndexPath    string // vector index persistence path
}

// Service owns the shared (vector index, corpus store) pair and exposes the
// two core operations: IngestDocument and AnswerQuery. All mutations of the
// pair happen under a single writer lock so concurrent ingests cannot
// interleave rows between the two structures; reads proceed concurrently
// under the read lock.
type Service struct {
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	index    vector.Index
	store    corpus.Store
	synth    synthesizer.Synthesizer
	config   Config
	logger   *zap.Logger // optional; when set, logs debug events

	mu sync.RWMutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets a logger for debug output (document ingested, query
// answered, etc.).
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates the retrieval service, loads the persisted vector
// index if present, and validates it against the corpus store: the index
// row count must equal the corpus length, otherwise ErrCorruptState is
// returned and the state is refused (fail closed, no silent truncation).
func NewService(
	embedder embedding.Embedder,
	index vector.Index,
	store corpus.Store,
	synth synthesizer.Synthesizer,
	cfg Config,
	opts ...ServiceOption,
) (*Service, error) {
	ch, err := chunker.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if err := index.Load(cfg.IndexPath); err != nil {
		return nil, fmt.Errorf("load vector index: %w", err)
	}
	count, err := store.Count(context.Background())
	if err != nil {
		return nil, fmt.Errorf("count corpus entries: %w", err)
	}
	if count != index.Rows() {
		return nil, fmt.Errorf("%w: corpus has %d entries, index has %d rows", ErrCorruptState, count, index.Rows())
	}

	s := &Service{
		chunker:  ch,
		embedder: embedder,
		index:    index,
		store:    store,
		synth:    synth,
		config:   cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IngestDocument chunks rawText, embeds all chunks in one batched call, and
// appends the vectors and their payloads to the index/corpus pair as a
// unit. The index is persisted before success is reported; a persistence
// failure leaves durable state behind in-memory state, which the next
// startup detects and refuses. When docID is empty a random ID is
// assigned; the used ID is returned.
func (s *Service) IngestDocument(ctx context.Context, docID, title, rawText string) (string, error) {
	if docID == "" {
		docID = uuid.New().String()
	}

	chunks := s.chunker.Chunk(rawText)
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: document %s", ErrEmptyDocument, docID)
	}

	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return "", fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return "", fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	entries := make([]corpus.Entry, len(chunks))
	for i, text := range chunks {
		entries[i] = corpus.Entry{DocumentID: docID, Text: text}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Everything the in-memory insert could reject is checked up front, so
	// the corpus append and the index insert cannot diverge mid-ingest.
	if err := s.validateBatch(vectors); err != nil {
		return "", err
	}
	if err := s.store.AppendDocument(ctx, &models.Document{ID: docID, Title: title}, entries); err != nil {
		return "", fmt.Errorf("append document: %w", err)
	}
	if _, err := s.index.Insert(ctx, vectors); err != nil {
		return "", fmt.Errorf("insert vectors: %w", err)
	}
	if err := s.index.Save(s.config.IndexPath); err != nil {
		return "", fmt.Errorf("persist vector index: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("document ingested",
			zap.String("doc_id", docID),
			zap.Int("chunks", len(chunks)),
			zap.Int("index_rows", s.index.Rows()),
		)
	}
	return docID, nil
}

// validateBatch mirrors the index's insert-time checks so a batch that
// would be rejected never reaches the corpus store.
func (s *Service) validateBatch(vectors [][]float32) error {
	width := len(vectors[0])
	if width == 0 {
		return fmt.Errorf("%w: zero-width vector", vector.ErrDimensionMismatch)
	}
	if dims := s.index.Dimensions(); dims != 0 && width != dims {
		return fmt.Errorf("%w: embedder produced width %d, index has %d", vector.ErrDimensionMismatch, width, dims)
	}
	for i, vec := range vectors {
		if len(vec) != width {
			return fmt.Errorf("%w: vector %d has width %d, batch has %d", vector.ErrDimensionMismatch, i, len(vec), width)
		}
		for _, v := range vec {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return fmt.Errorf("vector %d contains a non-finite component", i)
			}
		}
	}
	return nil
}

// Retrieve embeds the query and returns the k nearest passages in
// ascending distance order. Propagates vector.ErrEmptyIndex when nothing
// has been ingested yet. k <= 0 uses the configured default.
func (s *Service) Retrieve(ctx context.Context, query string, k int) ([]models.Passage, error) {
	if k <= 0 {
		k = s.config.TopK
	}

	vectors, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.index.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, err
	}
	passages := make([]models.Passage, len(matches))
	for i, m := range matches {
		entry, err := s.store.Get(ctx, m.Row)
		if err != nil {
			return nil, fmt.Errorf("resolve row %d: %w", m.Row, err)
		}
		passages[i] = models.Passage{
			DocumentID: entry.DocumentID,
			Text:       entry.Text,
			Distance:   m.Distance,
		}
	}
	return passages, nil
}

// AnswerQuery retrieves the most relevant passages and condenses them into
// a cited answer. Sources appear in retrieval (ascending distance) order.
func (s *Service) AnswerQuery(ctx context.Context, query string) (*models.Answer, error) {
	passages, err := s.Retrieve(ctx, query, s.config.TopK)
	if err != nil {
		return nil, err
	}
	answer, err := s.synth.Synthesize(ctx, query, passages)
	if err != nil {
		return nil, fmt.Errorf("synthesize answer: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("query answered",
			zap.String("query", query),
			zap.Int("passages", len(passages)),
		)
	}
	return answer, nil
}

// Status reports document, chunk, and index row counts.
func (s *Service) Status(ctx context.Context) (documents int64, chunks, indexRows int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	documents, err = s.store.CountDocuments(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	chunks, err = s.store.Count(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	return documents, chunks, s.index.Rows(), nil
}

// Close releases the embedder, index, and corpus store.
func (s *Service) Close() error {
	var firstErr error
	for _, c := range []interface{ Close() error }{s.embedder, s.index, s.store} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
