// Package app assembles rentald: storage, services, HTTP surface, and the
// process lifecycle around them.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/avrentops/rentalctl/internal/config"
)

const shutdownGrace = 10 * time.Second

type App struct {
	Config *config.ServerConfig
	Logger *slog.Logger
	Server *http.Server
}

func New(cfg *config.ServerConfig, logger *slog.Logger, server *http.Server) *App {
	return &App{Config: cfg, Logger: logger, Server: server}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("rentald listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return a.Server.Shutdown(shutdownCtx)
}
