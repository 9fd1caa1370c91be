// Package history provides per-session conversation memory.
package history

import "github.com/knowbot/knowbot/internal/models"

// Store keeps an ordered log of conversation turns per session. Sessions are
// created lazily on first append; an unknown session id reads as an empty
// history, never an error.
type Store interface {
	AppendUser(sessionID, text string) error
	AppendAssistant(sessionID, text string) error
	// Turns returns the session's full history in append order.
	Turns(sessionID string) ([]models.Turn, error)
	// Reset removes all turns for the session. Idempotent.
	Reset(sessionID string) error
	Close() error
}
