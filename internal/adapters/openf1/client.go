// Package openf1 implements the cached, retrying, paced HTTP client for the
// OpenF1 API. It has no knowledge of standings or reconciliation; it only
// fetches JSON rows and keeps the request rate within upstream limits.
package openf1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/avolkov/paddock/pkg/logger"
	"github.com/avolkov/paddock/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL        = "https://api.openf1.org/v1"
	defaultCacheTTL       = 30 * time.Minute
	defaultMaxAttempts    = 3
	defaultBaseDelay      = 500 * time.Millisecond
	defaultRateLimitDelay = 2 * time.Second
	defaultPacingDelay    = 500 * time.Millisecond
	defaultTimeout        = 15 * time.Second
)

// retryPolicy bundles the retry knobs: attempt budget, exponential backoff
// base, and the extra delay applied after a 429.
type retryPolicy struct {
	maxAttempts    int
	baseDelay      time.Duration
	rateLimitDelay time.Duration
}

// backoff returns the sleep before the given attempt (attempt >= 2).
func (p retryPolicy) backoff(attempt int) time.Duration {
	return p.baseDelay * time.Duration(1<<(attempt-1))
}

// retryable reports whether another attempt may succeed. Non-2xx statuses
// other than 429 are permanent and propagate immediately.
func (p retryPolicy) retryable(err error) bool {
	var statusErr *StatusError
	return !errors.As(err, &statusErr)
}

type cacheEntry struct {
	body []byte
	at   time.Time
}

// Client fetches JSON from the OpenF1 API with an in-memory TTL cache,
// retry with exponential backoff, and pacing between network calls.
// It is safe for concurrent use, though the aggregator calls it sequentially.
type Client struct {
	baseURL    string
	httpClient *http.Client
	ttl        time.Duration
	retry      retryPolicy
	pacing     time.Duration
	log        logger.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// New creates a Client with default configuration.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		ttl:        defaultCacheTTL,
		retry: retryPolicy{
			maxAttempts:    defaultMaxAttempts,
			baseDelay:      defaultBaseDelay,
			rateLimitDelay: defaultRateLimitDelay,
		},
		pacing: defaultPacingDelay,
		cache:  make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("openf1")
	}
	return c
}

// Sessions fetches all sessions of a season.
func (c *Client) Sessions(ctx context.Context, year int) ([]Session, error) {
	params := url.Values{"year": []string{strconv.Itoa(year)}}
	var out []Session
	if err := c.fetchJSON(ctx, "sessions", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SessionDrivers fetches the roster of one session. Team affiliation is
// scoped to that session, not to the season.
func (c *Client) SessionDrivers(ctx context.Context, sessionKey int) ([]Driver, error) {
	params := url.Values{"session_key": []string{strconv.Itoa(sessionKey)}}
	var out []Driver
	if err := c.fetchJSON(ctx, "drivers", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SessionResults fetches the official classification of one session.
// An empty slice means the official result is not published yet.
func (c *Client) SessionResults(ctx context.Context, sessionKey int) ([]SessionResult, error) {
	params := url.Values{"session_key": []string{strconv.Itoa(sessionKey)}}
	var out []SessionResult
	if err := c.fetchJSON(ctx, "session_result", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Positions fetches the raw timestamped position samples of one session.
func (c *Client) Positions(ctx context.Context, sessionKey int) ([]Position, error) {
	params := url.Values{"session_key": []string{strconv.Itoa(sessionKey)}}
	var out []Position
	if err := c.fetchJSON(ctx, "position", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	body, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// fetch returns the raw response body for endpoint+params, serving from the
// cache when a fresh entry exists. The cache is written only on success.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	key := endpoint + "?" + params.Encode()

	if body, ok := c.cached(key); ok {
		metrics.RecordCacheHit()
		return body, nil
	}
	metrics.RecordCacheMiss()

	var lastErr error
	for attempt := 1; attempt <= c.retry.maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.RecordRetry()
			delay := c.retry.backoff(attempt)
			if errors.Is(lastErr, ErrRateLimited) {
				delay += c.retry.rateLimitDelay
			}
			c.log.Debug(ctx, "retrying upstream fetch",
				logger.String("endpoint", endpoint),
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
			)
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, err := c.do(ctx, endpoint, key)
		if err != nil {
			if !c.retry.retryable(err) {
				return nil, err
			}
			lastErr = err
			continue
		}

		c.store(key, body)
		// Pace successful network calls so sequential session loads stay
		// under the upstream rate limit.
		if err := sleep(ctx, c.pacing); err != nil {
			return nil, err
		}
		return body, nil
	}

	c.log.Warn(ctx, "upstream fetch failed, attempts exhausted",
		logger.String("endpoint", endpoint),
		logger.Int("attempts", c.retry.maxAttempts),
		logger.Error(lastErr),
	)
	return nil, lastErr
}

// do performs one network attempt.
func (c *Client) do(ctx context.Context, endpoint, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+key, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "network_error")
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamLatency(float64(time.Since(start).Milliseconds()))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.RecordRateLimited()
		metrics.RecordUpstreamRequest(endpoint, "rate_limited")
		return nil, fmt.Errorf("fetch %s: %w", endpoint, ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.RecordUpstreamRequest(endpoint, "http_error")
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "read_error")
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	metrics.RecordUpstreamRequest(endpoint, "ok")
	return body, nil
}

func (c *Client) cached(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok || time.Since(entry.at) >= c.ttl {
		return nil, false
	}
	return entry.body, true
}

func (c *Client) store(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{body: body, at: time.Now()}
}

// ClearCache drops all cached responses.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

// sleep waits for d, honoring context cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
