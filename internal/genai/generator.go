// Package genai provides text-generation clients for external LLM services.
package genai

import "context"

// Generator sends a prompt to a text-generation service and returns the
// completion. Failures (timeouts, malformed responses) surface as errors;
// substituting fallback text is the caller's decision.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
