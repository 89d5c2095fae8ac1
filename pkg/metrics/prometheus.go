// Package metrics provides Prometheus metrics for the paddock standings service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	// Upstream client metrics.
	upstreamRequests    *prometheus.CounterVec
	upstreamCacheHits   prometheus.Counter
	upstreamCacheMisses prometheus.Counter
	upstreamRetries     prometheus.Counter
	upstreamRateLimited prometheus.Counter
	upstreamLatency     prometheus.Histogram

	// Aggregation pass metrics.
	refreshPasses       *prometheus.CounterVec
	refreshDuration     prometheus.Histogram
	sessionsProcessed   prometheus.Counter
	sessionsSkipped     prometheus.Counter
	preliminarySessions prometheus.Counter
	resultsDropped      prometheus.Counter

	// Snapshot state gauges.
	snapshotResults   prometheus.Gauge
	snapshotDrivers   prometheus.Gauge
	snapshotQualy     prometheus.Gauge
	snapshotLastUnix  prometheus.Gauge
	snapshotCommitted prometheus.Counter

	// HTTP read API metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager on a custom registry so default Go collectors stay out.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "paddock",
		subsystem: "season",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initCollectors()
	return m
}

func (m *Manager) initCollectors() {
	auto := promauto.With(m.registry)

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_requests_total",
		Help:      "Upstream API requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	m.upstreamCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_cache_hits_total",
		Help:      "Upstream responses served from the in-memory cache",
	})

	m.upstreamCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_cache_misses_total",
		Help:      "Upstream requests that went to the network",
	})

	m.upstreamRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_retries_total",
		Help:      "Retry attempts against the upstream API",
	})

	m.upstreamRateLimited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_rate_limited_total",
		Help:      "429 responses received from the upstream API",
	})

	m.upstreamLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_latency_milliseconds",
		Help:      "Latency of upstream network calls in milliseconds",
		Buckets:   m.buckets,
	})

	m.refreshPasses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_passes_total",
		Help:      "Aggregation passes by outcome (ok, failed, skipped_tick)",
	}, []string{"outcome"})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_seconds",
		Help:      "Duration of a full aggregation pass in seconds",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	m.sessionsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_processed_total",
		Help:      "Sessions successfully reconciled",
	})

	m.sessionsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_skipped_total",
		Help:      "Sessions skipped because their data could not be fetched",
	})

	m.preliminarySessions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "preliminary_sessions_total",
		Help:      "Sessions reconstructed from raw position samples",
	})

	m.resultsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_dropped_total",
		Help:      "Result rows dropped for referencing an unknown driver",
	})

	m.snapshotResults = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_results",
		Help:      "Session results in the committed snapshot",
	})

	m.snapshotDrivers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_drivers",
		Help:      "Distinct drivers observed in the committed snapshot",
	})

	m.snapshotQualy = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_qualifying_results",
		Help:      "Qualifying results in the committed snapshot",
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_commit_unix",
		Help:      "Unix time of the last committed snapshot",
	})

	m.snapshotCommitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_commits_total",
		Help:      "Snapshots committed since process start",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request latency in milliseconds",
		Buckets:   m.buckets,
	}, []string{"endpoint", "method"})
}

// Upstream client helpers.

// RecordUpstreamRequest counts one upstream request with its outcome.
func RecordUpstreamRequest(endpoint, outcome string) {
	globalManager.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
}

// RecordCacheHit counts a response served from cache.
func RecordCacheHit() { globalManager.upstreamCacheHits.Inc() }

// RecordCacheMiss counts a request that reached the network.
func RecordCacheMiss() { globalManager.upstreamCacheMisses.Inc() }

// RecordRetry counts one retry attempt.
func RecordRetry() { globalManager.upstreamRetries.Inc() }

// RecordRateLimited counts one 429 response.
func RecordRateLimited() { globalManager.upstreamRateLimited.Inc() }

// RecordUpstreamLatency records the latency of one network call.
func RecordUpstreamLatency(ms float64) { globalManager.upstreamLatency.Observe(ms) }

// Aggregation pass helpers.

// RecordRefreshPass counts one aggregation pass with its outcome.
func RecordRefreshPass(outcome string) {
	globalManager.refreshPasses.WithLabelValues(outcome).Inc()
}

// RecordRefreshDuration records the wall time of one aggregation pass.
func RecordRefreshDuration(seconds float64) { globalManager.refreshDuration.Observe(seconds) }

// RecordSessionProcessed counts one reconciled session.
func RecordSessionProcessed() { globalManager.sessionsProcessed.Inc() }

// RecordSessionSkipped counts one skipped session.
func RecordSessionSkipped() { globalManager.sessionsSkipped.Inc() }

// RecordPreliminarySession counts one session resolved via the preliminary path.
func RecordPreliminarySession() { globalManager.preliminarySessions.Inc() }

// RecordResultDropped counts one dropped result row.
func RecordResultDropped() { globalManager.resultsDropped.Inc() }

// Snapshot helpers.

// UpdateSnapshot sets the committed snapshot gauges and bumps the commit counter.
func UpdateSnapshot(results, drivers, qualifying int, commitUnix int64) {
	globalManager.snapshotResults.Set(float64(results))
	globalManager.snapshotDrivers.Set(float64(drivers))
	globalManager.snapshotQualy.Set(float64(qualifying))
	globalManager.snapshotLastUnix.Set(float64(commitUnix))
	globalManager.snapshotCommitted.Inc()
}

// HTTP helpers.

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records the latency of one HTTP request.
func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
