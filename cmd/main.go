package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avolkov/paddock/internal/adapters/http/api"
	"github.com/avolkov/paddock/internal/adapters/openf1"
	"github.com/avolkov/paddock/internal/app"
	"github.com/avolkov/paddock/internal/config"
	"github.com/avolkov/paddock/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
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

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
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

	upstream := openf1.New(
		openf1.WithBaseURL(cfg.UpstreamBaseURL),
		openf1.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		openf1.WithCacheTTL(cfg.CacheTTL),
		openf1.WithMaxAttempts(cfg.MaxAttempts),
		openf1.WithBaseDelay(cfg.RetryBaseDelay),
		openf1.WithRateLimitDelay(cfg.RateLimitDelay),
		openf1.WithPacingDelay(cfg.PacingDelay),
	)

	svc := app.New(upstream,
		app.WithYear(cfg.SeasonYear),
		app.WithRefreshInterval(cfg.RefreshInterval),
	)
	svc.Start(ctx)
	defer svc.Stop()

	apiServer := api.NewServer(svc, api.WithAllowedOrigins(cfg.AllowedOrigins))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.Int("season_year", cfg.SeasonYear))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

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
