// Package services contains the server-side business logic: the
// authentication/permission authority and the maintenance-domain CRUD.
// Every mutating operation follows the same shape: resolve the session,
// check the required permission, check target-specific guards, mutate,
// persist.
package services

import (
	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/server/models"
	"github.com/gmpi-project/gmpi/internal/server/sessions"
)

// resolveSession validates the session (sliding its expiry) and checks the
// required permission against the session's snapshot. Pass an empty
// permission to only require a live session.
func resolveSession(m *sessions.Manager, sessionID string, p models.Permission) (*models.Session, error) {
	s, ok := m.Validate(sessionID)
	if !ok {
		return nil, common.ErrInvalidSession
	}
	if p != "" && !s.User.Has(p) {
		return nil, common.ErrPermissionDenied
	}
	return s, nil
}
