// Package server wires the application together: configuration, logging,
// repositories, services and the HTTP endpoint, with graceful shutdown on
// OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/gmpi-project/gmpi/internal/logging"
	"github.com/gmpi-project/gmpi/internal/server/auth"
	"github.com/gmpi-project/gmpi/internal/server/config"
	"github.com/gmpi-project/gmpi/internal/server/httpapi"
	"github.com/gmpi-project/gmpi/internal/server/repositories/repomanager"
	"github.com/gmpi-project/gmpi/internal/server/services"
	"github.com/gmpi-project/gmpi/internal/server/sessions"
	"github.com/gmpi-project/gmpi/internal/timex"
)

// sessionSweepInterval drives the background expired-session sweep.
const sessionSweepInterval = 5 * time.Minute

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	auth     *services.AuthService
	sessions *sessions.Manager
	api      *httpapi.API
}

// NewApp builds the full dependency graph. In demo mode everything runs on
// in-memory repositories and no database connection is opened.
func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var db *sql.DB
	var repos repomanager.RepositoryManager

	if cfg.DemoMode {
		repos = repomanager.NewMemoryRepositoryManager()
	} else {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		pg := repomanager.NewPostgresRepositoryManager()
		if err := pg.RunMigrations(context.Background(), db); err != nil {
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		repos = pg
	}

	clock := timex.SystemClock{}
	sm := sessions.NewManager(sessions.NewMemoryStore(), cfg.SessionTimeout, clock)
	verifier := &auth.BcryptVerifier{}

	authSvc := services.NewAuthService(db, repos, sm, verifier, clock, logger)
	if err := authSvc.EnsureDefaultAccounts(context.Background()); err != nil {
		return nil, fmt.Errorf("default accounts error: %w", err)
	}

	api := httpapi.NewAPI(
		authSvc,
		services.NewUserService(db, repos, sm, logger),
		services.NewCalendarService(db, repos, sm, clock, logger),
		services.NewFacilityService(db, repos, sm, logger),
		services.NewDashboardService(db, repos, sm, clock, logger),
		services.NewAttachmentService(cfg, sm, clock, logger),
		[]byte(cfg.SecretKey),
		logger,
	)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		auth:     authSvc,
		sessions: sm,
		api:      api,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.NewRouter(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server error", "error", err.Error())
		cancelFunc()
	}
}

func (app *App) startSessionSweeper(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := app.auth.CleanExpiredSessions(); n > 0 {
				app.logger.Debug(ctx, "expired sessions swept", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "demo_mode", app.config.DemoMode)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startSessionSweeper(ctx)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err.Error())
		}
	}
}
