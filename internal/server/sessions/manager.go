package sessions

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/gmpi-project/gmpi/internal/server/models"
	"github.com/gmpi-project/gmpi/internal/timex"
)

// DefaultTimeout is the idle lifetime of a session.
const DefaultTimeout = 30 * time.Minute

// Manager owns live sessions: it mints them after successful
// authentication, validates and renews them on every call, and removes
// them on logout or expiry. The manager holds no global state; it works
// against an injected Store and Clock.
type Manager struct {
	store   Store
	timeout time.Duration
	clock   timex.Clock
}

func NewManager(store Store, timeout time.Duration, clock timex.Clock) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{store: store, timeout: timeout, clock: clock}
}

// Create mints a session for user, snapshotting the public fields and
// permissions at this instant. Later permission changes do not alter the
// snapshot; RevokeUser exists for that.
func (m *Manager) Create(user *models.User) *models.Session {
	now := m.clock.Now()
	s := &models.Session{
		ID:     uuid.NewString(),
		UserID: user.ID,
		User: models.SessionUser{
			ID:          user.ID,
			Email:       user.Email,
			Name:        user.Name,
			Role:        user.Role,
			Permissions: slices.Clone(user.Permissions),
		},
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(m.timeout),
	}
	m.store.Put(s)
	return s
}

// Validate resolves the session and slides its expiry forward. A session
// found past its deadline is deleted and reported as absent. The contract
// is that a session stays alive indefinitely under continuous use and
// dies timeout after the last successful call. The slide itself happens
// inside the store, so concurrent requests carrying the same session are
// safe.
func (m *Manager) Validate(id string) (*models.Session, bool) {
	s, ok := m.store.Get(id)
	if !ok {
		return nil, false
	}

	now := m.clock.Now()
	if now.After(s.ExpiresAt) {
		m.store.Delete(id)
		return nil, false
	}

	return m.store.Touch(id, now, now.Add(m.timeout))
}

// HasPermission composes Validate with a membership check on the session's
// permission snapshot. It never errors: any failure reads as false.
func (m *Manager) HasPermission(id string, p models.Permission) bool {
	s, ok := m.Validate(id)
	if !ok {
		return false
	}
	return s.User.Has(p)
}

// Logout removes the session unconditionally and reports whether one existed.
func (m *Manager) Logout(id string) bool {
	return m.store.Delete(id)
}

// RevokeUser removes every live session belonging to userID and returns
// how many were dropped. Called when an administrator changes a user's
// role, so stale permission snapshots cannot outlive the change.
func (m *Manager) RevokeUser(userID string) int {
	ids := make([]string, 0, 4)
	m.store.Range(func(s *models.Session) bool {
		if s.UserID == userID {
			ids = append(ids, s.ID)
		}
		return true
	})
	for _, id := range ids {
		m.store.Delete(id)
	}
	return len(ids)
}

// CleanExpired sweeps sessions whose deadline has passed. Lazy expiry on
// Validate is the enforcement mechanism; the sweep only reclaims memory
// for sessions nobody touches again.
func (m *Manager) CleanExpired() int {
	now := m.clock.Now()
	ids := make([]string, 0, 4)
	m.store.Range(func(s *models.Session) bool {
		if now.After(s.ExpiresAt) {
			ids = append(ids, s.ID)
		}
		return true
	})
	for _, id := range ids {
		m.store.Delete(id)
	}
	return len(ids)
}
