// Package chat provides the retrieval-augmented answering engine.
package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/knowbot/knowbot/internal/config"
	"github.com/knowbot/knowbot/internal/embedding"
	"github.com/knowbot/knowbot/internal/genai"
	"github.com/knowbot/knowbot/internal/history"
	"github.com/knowbot/knowbot/internal/models"
	"github.com/knowbot/knowbot/internal/vector"
	"github.com/knowbot/knowbot/pkg/utils"
)

// Engine answers questions by combining passages retrieved from the vector
// index with the session's conversation history, feeding both into a
// generation call.
type Engine struct {
	embedder  embedding.Embedder
	index     vector.Index
	history   history.Store
	generator genai.Generator

	topK            int
	minScore        float64
	historyLimit    int
	recordAssistant bool
	fallback        string
	logger          *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for answer events and generation failures.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine with the given dependencies and chat settings.
func NewEngine(
	embedder embedding.Embedder,
	index vector.Index,
	hist history.Store,
	generator genai.Generator,
	cfg *config.ChatConfig,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		embedder:        embedder,
		index:           index,
		history:         hist,
		generator:       generator,
		topK:            cfg.TopK,
		minScore:        cfg.MinScore,
		historyLimit:    cfg.HistoryLimit,
		recordAssistant: cfg.RecordAssistantOrDefault(),
		fallback:        cfg.Fallback,
	}
	if e.topK <= 0 {
		e.topK = 3
	}
	if e.fallback == "" {
		e.fallback = config.DefaultFallback
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Answer records the question, retrieves relevant passages, assembles the
// prompt, and returns the generated answer. A generation failure is logged
// and masked with the fallback text so the answer path stays total; embedding
// and index failures propagate, since no context can be retrieved without
// them.
func (e *Engine) Answer(ctx context.Context, sessionID, question string) (string, error) {
	// Recorded before retrieval so the question is part of any history read
	// later in this call.
	if err := e.history.AppendUser(sessionID, question); err != nil {
		return "", fmt.Errorf("record question: %w", err)
	}

	queryVec, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	matches, err := e.index.Query(ctx, queryVec, e.topK, e.minScore)
	if err != nil {
		return "", fmt.Errorf("query index: %w", err)
	}

	turns, err := e.history.Turns(sessionID)
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}
	// The question was just appended above and already has its own prompt
	// section; drop it from the rendered history so it appears once.
	if n := len(turns); n > 0 && turns[n-1].Role == models.RoleUser && turns[n-1].Content == question {
		turns = turns[:n-1]
	}

	prompt := BuildPrompt(renderContext(matches), renderHistory(turns, e.historyLimit), question)

	answer, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("generation failed, returning fallback",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
		return e.fallback, nil
	}

	if e.recordAssistant {
		if err := e.history.AppendAssistant(sessionID, answer); err != nil {
			return "", fmt.Errorf("record answer: %w", err)
		}
	}

	if e.logger != nil {
		e.logger.Debug("question answered",
			zap.String("session_id", sessionID),
			zap.Int("passages", len(matches)),
			zap.String("question", utils.Truncate(question, 120)),
		)
	}
	return answer, nil
}

// Reset clears the session's conversation history.
func (e *Engine) Reset(sessionID string) error {
	return e.history.Reset(sessionID)
}
