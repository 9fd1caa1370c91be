package genai

import (
	"fmt"
	"time"

	"github.com/knowbot/knowbot/internal/config"
)

// New creates the generator selected by cfg.Provider.
// Supported providers: "gemini" (default), "ollama".
func New(cfg *config.GenerationConfig) (Generator, error) {
	switch cfg.Provider {
	case "gemini", "":
		key := cfg.ResolvedAPIKey()
		if key == "" {
			return nil, fmt.Errorf("gemini API key not set (set generation.api_key or %s)", cfg.APIKeyEnv)
		}
		return NewGeminiClient(
			cfg.BaseURL,
			cfg.Model,
			key,
			time.Duration(cfg.ConnectTimeoutS)*time.Second,
			time.Duration(cfg.TimeoutS)*time.Second,
		), nil
	case "ollama":
		return NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, time.Duration(cfg.TimeoutS)*time.Second), nil
	default:
		return nil, fmt.Errorf("unknown generation provider: %s (supported: gemini, ollama)", cfg.Provider)
	}
}
