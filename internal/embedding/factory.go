package embedding

import (
	"fmt"

	"github.com/knowbot/knowbot/internal/config"
)

// New creates the embedder selected by cfg.Provider.
// Supported providers: "onnx" (local model, requires CGO), "ollama", "mock".
func New(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "onnx", "":
		e, err := NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create ONNX embedder: %w", err)
		}
		return e, nil
	case "ollama":
		return NewOllamaEmbedder(cfg.OllamaURL, cfg.OllamaModel, cfg.Dimensions), nil
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: onnx, ollama, mock)", cfg.Provider)
	}
}
