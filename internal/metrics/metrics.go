// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package metrics holds the Prometheus collectors for Wayfarer.

All collectors are registered with the default registry through promauto and
exposed at /metrics:

	curl http://localhost:5002/metrics

Metric families:
  - wayfarer_api_*: request count, latency, in-flight and rate limit rejections
  - wayfarer_store_*: Badger operation latency, errors, conflict retries, GC runs
  - wayfarer_reactions_*: like and view transitions by outcome
  - wayfarer_fanout_*: realtime event publishing and queue depth
  - wayfarer_circuit_breaker_*: broker publish breaker state
  - wayfarer_websocket_*: connected and joined clients, message counts
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wayfarer_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wayfarer_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"limiter"}, // "api", "submit"
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wayfarer_store_operation_duration_seconds",
			Help:    "Duration of record store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_store_errors_total",
			Help: "Total number of record store failures (not found excluded)",
		},
		[]string{"operation"},
	)

	StoreConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wayfarer_store_conflict_retries_total",
			Help: "Total number of transactions retried after a write conflict",
		},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_store_gc_runs_total",
			Help: "Total number of value log garbage collection passes",
		},
		[]string{"result"}, // "rewritten", "noop", "error"
	)

	// Reaction Metrics
	ReactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_reactions_total",
			Help: "Total number of like and view calls by outcome",
		},
		[]string{"kind", "outcome"}, // outcome: "liked", "unliked", "first_view", "repeat_view", "anonymous_view", "not_found", "invalid", "error"
	)

	ReactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wayfarer_reaction_duration_seconds",
			Help:    "Duration of like and view transitions in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Fan-out Metrics
	FanoutEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_fanout_events_total",
			Help: "Total number of realtime events by result",
		},
		[]string{"event", "result"}, // result: "published", "dropped", "failed", "delivered"
	)

	FanoutQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wayfarer_fanout_queue_depth",
			Help: "Events waiting to be published to the broker",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wayfarer_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wayfarer_websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSJoinedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wayfarer_websocket_joined_clients",
			Help: "Current number of connections joined to the experiences room",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wayfarer_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wayfarer_websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wayfarer_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the named limiter.
func RecordRateLimitHit(limiter string) {
	APIRateLimitHits.WithLabelValues(limiter).Inc()
}

// RecordStoreOperation records latency and, when err is non-nil, a failure.
// Callers pass nil for not-found lookups.
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(operation).Inc()
	}
}

// RecordStoreConflictRetry counts one retried transaction.
func RecordStoreConflictRetry() {
	StoreConflictRetries.Inc()
}

// RecordStoreGC counts one garbage collection pass.
func RecordStoreGC(result string) {
	StoreGCRuns.WithLabelValues(result).Inc()
}

// RecordReaction records the outcome and latency of a like or view call.
func RecordReaction(kind, outcome string, duration time.Duration) {
	ReactionsTotal.WithLabelValues(kind, outcome).Inc()
	ReactionDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordFanoutEvent counts an event by name and result.
func RecordFanoutEvent(event, result string) {
	FanoutEventsTotal.WithLabelValues(event, result).Inc()
}

// UpdateFanoutQueueDepth sets the pending event gauge.
func UpdateFanoutQueueDepth(depth int) {
	FanoutQueueDepth.Set(float64(depth))
}

// RecordCircuitBreakerTransition records a state change of the named breaker.
// States are reported by name; the gauge uses 0=closed, 1=half-open, 2=open.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(circuitStateValue(to))
}

func circuitStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// SetWSCounts updates the websocket connection gauges.
func SetWSCounts(connected, joined int) {
	WSConnections.Set(float64(connected))
	WSJoinedClients.Set(float64(joined))
}
