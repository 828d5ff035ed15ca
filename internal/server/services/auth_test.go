package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/server/models"
)

func TestAuthenticate_Success(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.auth.Authenticate(context.Background(), "admin@colegio.edu", "admin123")
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "admin@colegio.edu", session.User.Email)
	assert.Equal(t, models.RoleAdministrator, session.User.Role)
	assert.True(t, session.User.Has(models.PermissionManageUsers))

	got, err := env.auth.ValidateSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.auth.Authenticate(context.Background(), "admin@colegio.edu", "nope")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Nil(t, session)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Authenticate(context.Background(), "ghost@colegio.edu", "whatever")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuthenticate_DisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.loginAdmin(t)

	vic, err := env.repos.Users(nil).GetByEmail(ctx, "vic@colegio.edu")
	require.NoError(t, err)

	inactive := false
	require.NoError(t, env.users.Update(ctx, admin, vic.ID, UserPatch{Active: &inactive}))

	_, err = env.auth.Authenticate(ctx, "vic@colegio.edu", "Vic1234567!")
	assert.ErrorIs(t, err, common.ErrAccountDisabled)
}

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pub, err := env.auth.Register(ctx, RegisterRequest{
		Email:    "maria@colegio.edu",
		Password: "secret1",
		Name:     "Maria",
		Role:     models.RoleAuthority,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAuthority, pub.Role)
	assert.True(t, pub.Active)

	session, err := env.auth.Authenticate(ctx, "maria@colegio.edu", "secret1")
	require.NoError(t, err)
	assert.True(t, session.User.Has(models.PermissionManageCalendar))
	assert.False(t, session.User.Has(models.PermissionManageUsers))
}

func TestRegister_CheckOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
		wantMsg string
	}{
		{
			name:    "duplicate wins over everything",
			req:     RegisterRequest{Email: "admin@colegio.edu", Password: "", Name: "", Role: ""},
			wantErr: common.ErrAlreadyExists,
			wantMsg: "email already registered",
		},
		{
			name:    "missing fields",
			req:     RegisterRequest{Email: "new@colegio.edu", Password: "secret1", Name: "", Role: models.RoleAuthority},
			wantErr: common.ErrValidation,
			wantMsg: "all fields are required",
		},
		{
			name:    "bad email format",
			req:     RegisterRequest{Email: "not an email", Password: "secret1", Name: "N", Role: models.RoleAuthority},
			wantErr: common.ErrValidation,
			wantMsg: "invalid email format",
		},
		{
			name:    "short password",
			req:     RegisterRequest{Email: "new@colegio.edu", Password: "12345", Name: "N", Role: models.RoleAuthority},
			wantErr: common.ErrValidation,
			wantMsg: "password must be at least 6 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRegister_DuplicateSecondAttempt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := RegisterRequest{Email: "x@colegio.edu", Password: "secret1", Name: "X", Role: models.RoleAuthority}

	_, err := env.auth.Register(ctx, req)
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, req)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestRegister_UnknownRoleGetsReadOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterRequest{
		Email:    "intern@colegio.edu",
		Password: "secret1",
		Name:     "Intern",
		Role:     "janitor",
	})
	require.NoError(t, err)

	session, err := env.auth.Authenticate(ctx, "intern@colegio.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, []models.Permission{models.PermissionRead}, session.User.Permissions)
}

func TestValidateSession_ExpiryAndRenewal(t *testing.T) {
	env := newTestEnv(t)

	id := env.loginAdmin(t)

	env.clock.Advance(29 * time.Minute)
	_, err := env.auth.ValidateSession(id)
	require.NoError(t, err)

	// Renewed above, so another 29 minutes still passes.
	env.clock.Advance(29 * time.Minute)
	_, err = env.auth.ValidateSession(id)
	require.NoError(t, err)

	env.clock.Advance(31 * time.Minute)
	_, err = env.auth.ValidateSession(id)
	assert.ErrorIs(t, err, common.ErrInvalidSession)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.loginAdmin(t)
	assert.True(t, env.auth.Logout(ctx, id))
	assert.False(t, env.auth.Logout(ctx, id))

	_, err := env.auth.ValidateSession(id)
	assert.ErrorIs(t, err, common.ErrInvalidSession)
}

func TestCleanExpiredSessions(t *testing.T) {
	env := newTestEnv(t)

	env.loginAdmin(t)
	env.loginAuthority(t)

	env.clock.Advance(31 * time.Minute)
	assert.Equal(t, 2, env.auth.CleanExpiredSessions())
	assert.Equal(t, 0, env.auth.CleanExpiredSessions())
}

func TestEnsureDefaultAccounts_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.auth.EnsureDefaultAccounts(ctx))

	all, err := env.repos.Users(nil).List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
