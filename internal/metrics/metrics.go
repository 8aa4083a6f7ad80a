package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classification Metrics
var (
	// ClassificationsTotal tracks classifications by winning category
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifications_total",
			Help: "Total classifications by winning emotion category",
		},
		[]string{"category"},
	)

	// ClassificationDuration tracks classification latency in seconds
	ClassificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classification_duration_seconds",
			Help:    "Classification duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		},
	)

	// DegenerateInputsTotal tracks short or nonsensical inputs that short-circuited
	DegenerateInputsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classification_degenerate_inputs_total",
			Help: "Total inputs that short-circuited as too short or nonsensical",
		},
	)

	// FeedbackTotal tracks calibration feedback updates by category
	FeedbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speaker_feedback_total",
			Help: "Total speaker calibration feedback updates by category",
		},
		[]string{"category"},
	)
)

// Combination Metrics
var (
	// CombinationsTotal tracks combinations by strategy and outcome (agree/disagree/single_source)
	CombinationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "combinations_total",
			Help: "Total verdict combinations by strategy and outcome (agree/disagree/single_source)",
		},
		[]string{"strategy", "outcome"},
	)
)

// Speaker Store Metrics
var (
	// SpeakerStoreOpsTotal tracks speaker store operations by operation and status
	SpeakerStoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speaker_store_operations_total",
			Help: "Total speaker store operations by operation and status",
		},
		[]string{"operation", "status"},
	)
)

// Redis Metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks Redis connection errors
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// WebSocket Feed Metrics
var (
	// FeedConnectedClients tracks current connected WebSocket feed clients
	FeedConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_connected_clients",
			Help: "Current number of connected WebSocket feed clients",
		},
	)

	// FeedConnectionsTotal tracks feed connection attempts by result
	FeedConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_connections_total",
			Help: "Total WebSocket feed connection attempts by result (success/rejected)",
		},
		[]string{"result"},
	)

	// FeedSlowClientsEvicted tracks slow feed clients evicted due to full buffers
	FeedSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_slow_clients_evicted_total",
			Help: "Total slow WebSocket feed clients evicted due to full send buffers",
		},
	)

	// FeedBroadcastsTotal tracks results broadcast to the feed
	FeedBroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_broadcasts_total",
			Help: "Total results broadcast to the WebSocket feed",
		},
	)
)

// Rate Limiting Metrics
var (
	// RateLimitedRequestsTotal tracks requests rejected by the per-IP limiter
	RateLimitedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total API requests rejected by the per-IP rate limiter",
		},
	)
)

// Build Information Metrics
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, build_time, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "build_time", "go_version"},
	)
)

// HTTP Request Metrics
// Note: http_requests_total and http_request_duration_seconds are provided by
// the echoprometheus middleware; http_errors_total by the errors package.

// NewClassificationTimer returns a timer observing ClassificationDuration.
func NewClassificationTimer() *prometheus.Timer {
	return prometheus.NewTimer(ClassificationDuration)
}
