package registry

import (
	"sync"
	"time"
)

// Sessions tracks which users are currently entering a new display name.
// This is ephemeral, process-local state: it is allowed to be lost on
// restart and is never persisted. Callers must Clear on completion or
// cancel.
type Sessions struct {
	mu     sync.RWMutex
	active map[int64]time.Time
}

func NewSessions() *Sessions {
	return &Sessions{active: make(map[int64]time.Time)}
}

// Begin puts a user in name-entry mode
func (s *Sessions) Begin(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[userID] = time.Now()
}

// Active reports whether the user is in name-entry mode
func (s *Sessions) Active(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.active[userID]
	return ok
}

// Clear ends the user's name-entry mode
func (s *Sessions) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, userID)
}
