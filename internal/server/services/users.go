package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/dbx"
	"github.com/gmpi-project/gmpi/internal/logging"
	"github.com/gmpi-project/gmpi/internal/server/models"
	"github.com/gmpi-project/gmpi/internal/server/repositories/repomanager"
	"github.com/gmpi-project/gmpi/internal/server/sessions"
)

// UserService is the administrator surface over the user table. Every
// operation requires the manage_users permission, and the built-in
// administrator account is off limits to all of them.
type UserService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	sessions *sessions.Manager
	logger   logging.Logger
}

func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, sm *sessions.Manager, logger logging.Logger) *UserService {
	return &UserService{db: db, repos: repos, sessions: sm, logger: logger}
}

func (s *UserService) List(ctx context.Context, sessionID string) ([]models.PublicUser, error) {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionManageUsers); err != nil {
		return nil, err
	}

	all, err := s.repos.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	result := make([]models.PublicUser, 0, len(all))
	for _, u := range all {
		result = append(result, u.Public())
	}
	return result, nil
}

// UserPatch carries the updatable fields. Only name, role and active are
// in the allow-list; everything else on the record is immutable through
// this API. Nil/empty fields are left untouched.
type UserPatch struct {
	Name   string
	Role   models.Role
	Active *bool
}

// Update applies the patch to the target user. The read-modify-write
// runs in one transaction so a concurrent update cannot interleave. A
// role change recomputes the permission set from the role table and,
// once the transaction commits, force-revokes the user's live sessions,
// so no session keeps a stale permission snapshot.
func (s *UserService) Update(ctx context.Context, sessionID, userID string, patch UserPatch) error {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionManageUsers); err != nil {
		return err
	}

	roleChanged := false
	var targetEmail string

	err := s.repos.WithinTransaction(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		target, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if target.Email == models.DefaultAdminEmail {
			return common.ErrImmutableAccount
		}

		if patch.Name != "" {
			target.Name = patch.Name
		}
		if patch.Role != "" && patch.Role != target.Role {
			target.Role = patch.Role
			target.Permissions = models.RolePermissions(patch.Role)
			roleChanged = true
		}
		if patch.Active != nil {
			target.Active = *patch.Active
		}
		targetEmail = target.Email

		if err := repo.Update(ctx, target); err != nil {
			return fmt.Errorf("error updating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if roleChanged {
		revoked := s.sessions.RevokeUser(userID)
		s.logger.Info(ctx, "role changed, sessions revoked", "user", targetEmail, "revoked", revoked)
	}

	return nil
}

func (s *UserService) Delete(ctx context.Context, sessionID, userID string) error {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionManageUsers); err != nil {
		return err
	}

	var targetEmail string

	err := s.repos.WithinTransaction(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		target, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if target.Email == models.DefaultAdminEmail {
			return common.ErrImmutableAccount
		}
		targetEmail = target.Email

		if err := repo.Delete(ctx, userID); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Whatever sessions the deleted user still had are dead weight now.
	s.sessions.RevokeUser(userID)

	s.logger.Info(ctx, "user deleted", "user", targetEmail)
	return nil
}
