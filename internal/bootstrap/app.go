package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/farmsight/internal/domain/auth"
	"github.com/yanqian/farmsight/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	users  auth.Repository
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, users auth.Repository) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, users: users}
}

// Run seeds demo data, starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	if err := a.seed(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) seed(ctx context.Context) error {
	if !a.cfg.Auth.SeedDemoAccounts {
		return nil
	}
	seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	created, err := auth.SeedDemoAccounts(seedCtx, a.users, auth.DemoAccounts, a.logger)
	if err != nil {
		return err
	}
	a.logger.Info("demo accounts ready", "created", created, "total", len(auth.DemoAccounts))
	return nil
}
