package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/logging"
	"github.com/gmpi-project/gmpi/internal/server/auth"
	"github.com/gmpi-project/gmpi/internal/server/models"
	"github.com/gmpi-project/gmpi/internal/server/repositories/repomanager"
	"github.com/gmpi-project/gmpi/internal/server/sessions"
	"github.com/gmpi-project/gmpi/internal/timex"
)

// local@domain.tld, both sides non-empty, no embedded whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// AuthService authenticates credentials, mints and validates sessions and
// registers new users.
type AuthService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	sessions *sessions.Manager
	verifier auth.CredentialVerifier
	clock    timex.Clock
	logger   logging.Logger
}

func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, sm *sessions.Manager,
	verifier auth.CredentialVerifier, clock timex.Clock, logger logging.Logger) *AuthService {
	return &AuthService{
		db:       db,
		repos:    repos,
		sessions: sm,
		verifier: verifier,
		clock:    clock,
		logger:   logger,
	}
}

// Authenticate validates the credentials and mints a session snapshotting
// the user's permissions at this instant. Unknown email and wrong password
// both come back as ErrInvalidCredentials; a matched but deactivated user
// comes back as ErrAccountDisabled.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.Session, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if err := s.verifier.Verify(user.PasswordHash, password); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, common.ErrAccountDisabled
	}

	session := s.sessions.Create(user)
	s.logger.Info(ctx, "session created", "user", user.Email, "role", user.Role)
	return session, nil
}

// RegisterRequest is the candidate record for a new account.
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
}

// Register creates a new user. Checks run in a fixed order and the first
// failure wins: duplicate email, missing required fields, email format,
// password length. Permissions come from the fixed role table; the
// password is stored only as a hash.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.PublicUser, error) {
	repo := s.repos.Users(s.db)

	if _, err := repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", common.ErrAlreadyExists)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}

	if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
		return nil, fmt.Errorf("all fields are required: %w", common.ErrValidation)
	}

	if !emailPattern.MatchString(req.Email) {
		return nil, fmt.Errorf("invalid email format: %w", common.ErrValidation)
	}

	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, common.ErrValidation)
	}

	hash, err := s.verifier.Hash(req.Password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		ID:               uuid.NewString(),
		Email:            req.Email,
		PasswordHash:     hash,
		Name:             req.Name,
		Role:             req.Role,
		Permissions:      models.RolePermissions(req.Role),
		Active:           true,
		RegistrationDate: s.clock.Now(),
	}

	if _, err := repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user", user.Email, "role", user.Role)
	pub := user.Public()
	return &pub, nil
}

// ValidateSession resolves and renews the session, or reports it invalid.
func (s *AuthService) ValidateSession(sessionID string) (*models.Session, error) {
	session, ok := s.sessions.Validate(sessionID)
	if !ok {
		return nil, common.ErrInvalidSession
	}
	return session, nil
}

// HasPermission never errors: any failure reads as false.
func (s *AuthService) HasPermission(sessionID string, p models.Permission) bool {
	return s.sessions.HasPermission(sessionID, p)
}

// Logout removes the session and reports whether one existed.
func (s *AuthService) Logout(ctx context.Context, sessionID string) bool {
	ok := s.sessions.Logout(sessionID)
	if ok {
		s.logger.Info(ctx, "session closed", "session", sessionID)
	}
	return ok
}

// CleanExpiredSessions sweeps sessions whose deadline has passed and
// returns how many were removed. Purely memory hygiene: lazy expiry on
// access is the enforcement mechanism.
func (s *AuthService) CleanExpiredSessions() int {
	return s.sessions.CleanExpired()
}

// Built-in accounts. Development credentials, matching the original demo
// system; override or deactivate vic@ in a real deployment.
var defaultAccounts = []struct {
	email    string
	password string
	name     string
	role     models.Role
}{
	{models.DefaultAdminEmail, "admin123", "Administrador del Sistema", models.RoleAdministrator},
	{"vic@colegio.edu", "Vic1234567!", "Autoridad Educativa", models.RoleAuthority},
}

// EnsureDefaultAccounts creates the built-in accounts that are missing
// from the user store. Called once at startup; the admin account this
// seeds is the one the API treats as immutable.
func (s *AuthService) EnsureDefaultAccounts(ctx context.Context) error {
	repo := s.repos.Users(s.db)

	for _, acc := range defaultAccounts {
		_, err := repo.GetByEmail(ctx, acc.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("error checking default account %s: %w", acc.email, err)
		}

		hash, err := s.verifier.Hash(acc.password)
		if err != nil {
			return fmt.Errorf("error hashing default credentials: %w", err)
		}

		user := &models.User{
			ID:               uuid.NewString(),
			Email:            acc.email,
			PasswordHash:     hash,
			Name:             acc.name,
			Role:             acc.role,
			Permissions:      models.RolePermissions(acc.role),
			Active:           true,
			RegistrationDate: s.clock.Now(),
		}
		if _, err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("error seeding default account %s: %w", acc.email, err)
		}
		s.logger.Info(ctx, "default account created", "user", acc.email)
	}

	return nil
}
