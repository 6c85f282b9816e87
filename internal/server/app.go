// Package server initializes and runs the API server: configuration,
// database connection and migrations, service wiring, the HTTP listener,
// and graceful shutdown.
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
	"syscall"
	"time"

	"github.com/marianfedorco24/api/internal/logging"
	"github.com/marianfedorco24/api/internal/server/config"
	"github.com/marianfedorco24/api/internal/server/extauth"
	"github.com/marianfedorco24/api/internal/server/httpapi"
	"github.com/marianfedorco24/api/internal/server/mail"
	"github.com/marianfedorco24/api/internal/server/repositories/repomanager"
	"github.com/marianfedorco24/api/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	sessionService := services.NewSessionService(db, manager, cfg)

	var sender mail.Sender
	if cfg.SignupVerification {
		sender, err = mail.NewSMTPSender(cfg)
		if err != nil {
			return nil, fmt.Errorf("mail init error: %w", err)
		}
	}
	userService := services.NewUserService(db, manager, sessionService, sender, cfg)

	// The scrapers run out of process and write straight to the cache
	// tables, so the in-process sources stay nil: the endpoints serve
	// cache only.
	cacheService := services.NewCacheService(db, manager, nil, nil)

	var provider *extauth.Provider
	if cfg.OAuthClientID != "" {
		provider = extauth.New(cfg)
	}

	api := httpapi.New(cfg, logger, userService, sessionService, cacheService, provider)

	return &App{config: cfg, logger: logger, db: db, http: api}, nil
}

// Run serves HTTP until ctx is canceled or a termination signal arrives,
// then drains in-flight requests before returning.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.initSignalHandler(cancel)

	srv := &http.Server{
		Addr:              app.config.Addr,
		Handler:           app.http.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.Addr, "env", app.config.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	if err := app.db.Close(); err != nil {
		return fmt.Errorf("db close error: %w", err)
	}
	return nil
}

func (app *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}
