package models

import "time"

// SessionUser is the snapshot of the authenticated user's public fields
// and permissions taken when the session is minted. Later changes to the
// user record do not retroactively alter the snapshot; the authority
// revokes the session instead when the role changes.
type SessionUser struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
}

// Has reports whether the snapshot carries permission p.
func (u *SessionUser) Has(p Permission) bool {
	return HasPermission(u.Permissions, p)
}

// Session is a time-bounded credential binding. A session is valid while
// the current time has not passed ExpiresAt; every successful validation
// slides ExpiresAt forward, so continuous use keeps it alive indefinitely.
// Sessions are process-scoped and never written to the durable store.
type Session struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	User         SessionUser `json:"user"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity time.Time   `json:"last_activity"`
	ExpiresAt    time.Time   `json:"expires_at"`
}
