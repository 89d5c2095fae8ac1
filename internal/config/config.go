// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Layer file and env values on top via Load.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// SeasonYear selects the championship season to aggregate.
	SeasonYear int `koanf:"season_year"`

	// UpstreamBaseURL points at the OpenF1-compatible API root.
	UpstreamBaseURL string `koanf:"upstream_base_url"`

	// CacheTTL bounds how long upstream responses are reused.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// MaxAttempts caps upstream fetch attempts per request.
	MaxAttempts int `koanf:"max_attempts"`

	// RetryBaseDelay seeds the exponential backoff between attempts.
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// RateLimitDelay is the extra wait after an upstream 429.
	RateLimitDelay time.Duration `koanf:"rate_limit_delay"`

	// PacingDelay is the pause after each successful upstream call.
	PacingDelay time.Duration `koanf:"pacing_delay"`

	// UpstreamTimeout bounds a single upstream HTTP request.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout"`

	// RefreshInterval is the period between background aggregation passes.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// AllowedOrigins lists CORS origins permitted to query the read API.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8090",
		SeasonYear:      2025,
		UpstreamBaseURL: "https://api.openf1.org/v1",
		CacheTTL:        30 * time.Minute,
		MaxAttempts:     3,
		RetryBaseDelay:  500 * time.Millisecond,
		RateLimitDelay:  2 * time.Second,
		PacingDelay:     500 * time.Millisecond,
		UpstreamTimeout: 15 * time.Second,
		RefreshInterval: 30 * time.Minute,
		AllowedOrigins:  []string{"*"},
	}
}
