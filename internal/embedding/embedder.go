// Package embedding provides text embedding via a local ONNX model.
package embedding

import "context"

// Embedder produces fixed-dimension vector embeddings for text. The output
// of EmbedBatch has the same length and order as the input. For a fixed
// model, embedding the same text always yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
