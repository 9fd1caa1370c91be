package history

import (
	"sync"

	"github.com/knowbot/knowbot/internal/models"
)

// session holds one session's turn log with its own lock, so appends in
// different sessions never contend.
type session struct {
	mu    sync.Mutex
	turns []models.Turn
}

// MemoryStore is an in-process Store. The session map is guarded by an
// RWMutex; per-session appends serialize on the session's own mutex in call
// arrival order.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*session)}
}

func (s *MemoryStore) getOrCreate(sessionID string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[sessionID]; ok {
		return sess
	}
	sess = &session{}
	s.sessions[sessionID] = sess
	return sess
}

func (s *MemoryStore) append(sessionID string, turn models.Turn) {
	sess := s.getOrCreate(sessionID)
	sess.mu.Lock()
	sess.turns = append(sess.turns, turn)
	sess.mu.Unlock()
}

// AppendUser appends a user turn to the session.
func (s *MemoryStore) AppendUser(sessionID, text string) error {
	s.append(sessionID, models.Turn{Role: models.RoleUser, Content: text})
	return nil
}

// AppendAssistant appends an assistant turn to the session.
func (s *MemoryStore) AppendAssistant(sessionID, text string) error {
	s.append(sessionID, models.Turn{Role: models.RoleAssistant, Content: text})
	return nil
}

// Turns returns a copy of the session's history in append order.
func (s *MemoryStore) Turns(sessionID string) ([]models.Turn, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return []models.Turn{}, nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]models.Turn, len(sess.turns))
	copy(out, sess.turns)
	return out, nil
}

// Reset removes the session entirely. Resetting an unknown session is a no-op.
func (s *MemoryStore) Reset(sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Close is a no-op for MemoryStore.
func (s *MemoryStore) Close() error {
	return nil
}
