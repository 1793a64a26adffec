// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package metrics holds the Prometheus instrumentation for Folio.
//
// Metrics are exposed at /metrics in Prometheus text format:
//
//	curl http://localhost:3000/metrics
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session Metrics
	SessionConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_connections",
			Help: "Current number of registered connections",
		},
	)

	SessionGroups = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_groups",
			Help: "Current number of non-empty groups",
		},
	)

	SessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_transitions_total",
			Help: "Total number of connection lifecycle transitions",
		},
		[]string{"transition"}, // connected, joined, left, disconnected
	)

	EventsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_events_routed_total",
			Help: "Total number of events fanned out to a group",
		},
		[]string{"kind"},
	)

	EventDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_event_deliveries_total",
			Help: "Total number of per-recipient deliveries",
		},
		[]string{"kind", "result"}, // result: "delivered", "failed"
	)

	EventsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_events_rejected_total",
			Help: "Total number of submitted events dropped before routing",
		},
		[]string{"reason"}, // not_member, stopped
	)

	FanoutSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "session_fanout_recipients",
			Help:    "Number of recipients per routed event",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
		[]string{"type"},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"}, // decode, validation, rate_limited, write, buffer_full
	)

	// Upload Metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Total number of document uploads",
		},
		[]string{"backend", "result"},
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_bytes_total",
			Help: "Total number of bytes stored by uploads",
		},
	)

	UploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upload_duration_seconds",
			Help:    "Duration of blob store writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Presence Metrics
	PresenceEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presence_events_total",
			Help: "Total number of lifecycle events seen on the presence bus",
		},
		[]string{"direction", "transition"}, // direction: published, consumed
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDelivery records the outcome of one routed event.
func RecordDelivery(kind string, delivered, failed int) {
	EventsRouted.WithLabelValues(kind).Inc()
	FanoutSize.Observe(float64(delivered + failed))
	if delivered > 0 {
		EventDeliveries.WithLabelValues(kind, "delivered").Add(float64(delivered))
	}
	if failed > 0 {
		EventDeliveries.WithLabelValues(kind, "failed").Add(float64(failed))
	}
}

// RecordUpload records a blob store write.
func RecordUpload(backend string, size int64, duration time.Duration, err error) {
	UploadDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err != nil {
		UploadsTotal.WithLabelValues(backend, "error").Inc()
		return
	}
	UploadsTotal.WithLabelValues(backend, "success").Inc()
	UploadBytes.Add(float64(size))
}
