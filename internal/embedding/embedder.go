// Package embedding provides text embedding via a local ONNX model, a remote
// Ollama server, or a deterministic mock for tests.
package embedding

import "context"

// Embedder produces fixed-dimension vector embeddings for text. Batch
// embedding over per-text calls amortizes external-call overhead on the
// ingestion path.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
