// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SSEConnectionsActive tracks currently open event streams.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Currently open SSE connections",
		},
	)

	// MoodDetectionsTotal tracks classification outcomes by mood and mode.
	MoodDetectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mood_detections_total",
			Help: "Mood classification outcomes",
		},
		[]string{"mood", "mode"},
	)

	// ClassifierFallbacksTotal counts classifier failures recovered by the
	// fixed Supportive fallback.
	ClassifierFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classifier_fallbacks_total",
			Help: "Mood classifier failures recovered by fallback",
		},
	)

	// LLMStreamDuration tracks reply generation stream duration.
	LLMStreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_stream_duration_seconds",
			Help:    "LLM streaming response duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model", "status"},
	)

	// TokensStreamedTotal counts text fragments relayed to clients.
	TokensStreamedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_tokens_streamed_total",
			Help: "Total streamed text fragments relayed to clients",
		},
	)
)

// RecordRequest records metrics for a completed HTTP request.
func RecordRequest(method, path, status string, durationSeconds float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// IncrementSSEConnections marks an event stream as opened.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections marks an event stream as closed.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}

// RecordLLMStream records the outcome of one reply generation stream.
func RecordLLMStream(model, status string, durationSeconds float64) {
	LLMStreamDuration.WithLabelValues(model, status).Observe(durationSeconds)
}
