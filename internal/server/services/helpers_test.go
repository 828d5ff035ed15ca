package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gmpi-project/gmpi/internal/logging"
	"github.com/gmpi-project/gmpi/internal/server/auth"
	"github.com/gmpi-project/gmpi/internal/server/repositories/repomanager"
	"github.com/gmpi-project/gmpi/internal/server/sessions"
	"github.com/gmpi-project/gmpi/internal/timex"
)

// testEnv wires every service against in-memory repositories and a manual
// clock so tests control time explicitly.
type testEnv struct {
	repos      *repomanager.MemoryRepositoryManager
	clock      *timex.ManualClock
	sessions   *sessions.Manager
	auth       *AuthService
	users      *UserService
	calendar   *CalendarService
	facilities *FacilityService
	dashboard  *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	repos := repomanager.NewMemoryRepositoryManager()
	clock := timex.NewManualClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	sm := sessions.NewManager(sessions.NewMemoryStore(), 30*time.Minute, clock)
	verifier := &auth.BcryptVerifier{Cost: bcrypt.MinCost}

	env := &testEnv{
		repos:      repos,
		clock:      clock,
		sessions:   sm,
		auth:       NewAuthService(nil, repos, sm, verifier, clock, logger),
		users:      NewUserService(nil, repos, sm, logger),
		calendar:   NewCalendarService(nil, repos, sm, clock, logger),
		facilities: NewFacilityService(nil, repos, sm, logger),
		dashboard:  NewDashboardService(nil, repos, sm, clock, logger),
	}

	require.NoError(t, env.auth.EnsureDefaultAccounts(context.Background()))
	return env
}

// loginAdmin authenticates the built-in administrator and returns the
// session ID.
func (e *testEnv) loginAdmin(t *testing.T) string {
	t.Helper()
	s, err := e.auth.Authenticate(context.Background(), "admin@colegio.edu", "admin123")
	require.NoError(t, err)
	return s.ID
}

// loginAuthority authenticates the built-in authority account.
func (e *testEnv) loginAuthority(t *testing.T) string {
	t.Helper()
	s, err := e.auth.Authenticate(context.Background(), "vic@colegio.edu", "Vic1234567!")
	require.NoError(t, err)
	return s.ID
}
