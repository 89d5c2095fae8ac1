package openf1

import (
	"net/http"
	"time"

	"github.com/avolkov/paddock/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the upstream API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient injects the HTTP client used for network calls.
// Per-attempt timeouts come from this client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCacheTTL sets how long cached responses stay valid.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxAttempts sets the retry attempt budget per fetch.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retry.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the base for the exponential retry backoff.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retry.baseDelay = d
		}
	}
}

// WithRateLimitDelay sets the extra fixed delay applied after a 429.
func WithRateLimitDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retry.rateLimitDelay = d
		}
	}
}

// WithPacingDelay sets the fixed delay imposed after every network call,
// throttling aggregate request rate independent of retries.
func WithPacingDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.pacing = d
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
