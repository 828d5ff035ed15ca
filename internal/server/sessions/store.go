// Package sessions implements the session lifecycle for the authority:
// minting, sliding-expiry validation, logout and expiry sweeps.
package sessions

import (
	"slices"
	"sync"
	"time"

	"github.com/gmpi-project/gmpi/internal/server/models"
)

// Store is the lookup table for live sessions. Implementations must be
// safe for concurrent use; Get and Touch return snapshots the caller
// owns, never storage-internal pointers. Sessions are process-scoped by
// contract: they never reach the durable store and do not survive a
// restart.
type Store interface {
	Get(id string) (*models.Session, bool)
	Put(s *models.Session)
	Delete(id string) bool
	// Touch updates the session's activity bookkeeping atomically and
	// returns a snapshot of the updated session.
	Touch(id string, lastActivity, expiresAt time.Time) (*models.Session, bool)
	// Range calls fn for every stored session until fn returns false.
	// fn must not call back into the store and must not retain s.
	Range(fn func(s *models.Session) bool)
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.Session)}
}

func clone(s *models.Session) *models.Session {
	c := *s
	c.User.Permissions = slices.Clone(s.User.Permissions)
	return &c
}

func (m *MemoryStore) Get(id string) (*models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return clone(s), true
}

func (m *MemoryStore) Put(s *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = clone(s)
}

func (m *MemoryStore) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

func (m *MemoryStore) Touch(id string, lastActivity, expiresAt time.Time) (*models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.LastActivity = lastActivity
	s.ExpiresAt = expiresAt
	return clone(s), true
}

func (m *MemoryStore) Range(fn func(s *models.Session) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if !fn(s) {
			return
		}
	}
}
