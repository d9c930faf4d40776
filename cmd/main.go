package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grantwire/gavel/internal/adapters/http/api"
	repository "github.com/grantwire/gavel/internal/adapters/repository"
	app "github.com/grantwire/gavel/internal/app"
	"github.com/grantwire/gavel/internal/config"
	"github.com/grantwire/gavel/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional .env file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Open the grant store
	store, err := repository.Connect(ctx, cfg.DSN(), repository.WithQueryTimeout(cfg.QueryTimeout()))
	if err != nil {
		os.Stderr.WriteString("failed to open database pool: " + err.Error() + "\n")
		return
	}

	// Create and start the service
	svc := app.New(
		app.WithStore(store),
		app.WithLogger(log),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, log)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	log.Info(ctx, "starting grant bidding API server", logger.String("addr", cfg.Addr()))
	go serveHTTP(ctx, srv, stop, log)

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// serveHTTP runs the listener and cancels the root context if it fails, so
// a boot-time error (such as a port already in use) unblocks main instead of
// leaving the process waiting for a signal.
func serveHTTP(ctx context.Context, srv *http.Server, stop context.CancelFunc, log logger.Logger) {
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(ctx, "HTTP server failed", logger.Error(err))
		stop()
	}
}
