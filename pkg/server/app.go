package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "MBGate/pkg/http"
	applogger "MBGate/pkg/logger"
)

// ShutdownHook releases one resource during shutdown.
type ShutdownHook struct {
	Name  string
	Close func(ctx context.Context) error
}

// App encapsulates the application lifecycle: it serves HTTP until the
// context is done or a termination signal arrives, then shuts down.
type App struct {
	log             *applogger.Logger
	httpServer      *xhttp.Server
	hooks           []ShutdownHook
	shutdownTimeout time.Duration
}

// New creates a new App. Hooks run in registration order after the HTTP
// server has stopped accepting requests.
func New(l *applogger.Logger, httpServer *xhttp.Server, shutdownTimeout time.Duration, hooks ...ShutdownHook) *App {
	if l == nil {
		l = applogger.Nop()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &App{
		log:             l.Component("app"),
		httpServer:      httpServer,
		hooks:           hooks,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run starts the HTTP server and blocks until ctx is done or SIGINT/SIGTERM
// is received.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			return fmt.Errorf("http server start: %w", err)
		}
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Shutdown stops the HTTP server, then runs every hook. All failures are
// collected.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	for _, h := range a.hooks {
		if err := h.Close(ctx); err != nil {
			a.log.Warn("shutdown hook failed", applogger.String("hook", h.Name), applogger.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", h.Name, err))
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
