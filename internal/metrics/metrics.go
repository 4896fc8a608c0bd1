// Package metrics provides Prometheus metrics for the mindboard API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route template.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindboard",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration measures request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mindboard",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// MutationsTotal counts content-graph mutations by outcome.
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mindboard",
			Name:      "mutations_total",
			Help:      "Total number of article/comment/like mutations",
		},
		[]string{"entity", "operation", "result"},
	)

	// OrphanedCommentsTotal counts comments created whose parent link could not be written.
	OrphanedCommentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mindboard",
			Name:      "orphaned_comments_total",
			Help:      "Comments persisted without a parent reference; reconciliation needed",
		},
	)
)

// RecordRequest records a finished HTTP request.
func RecordRequest(route, method, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(duration)
}

// RecordMutation records a mutation attempt. result is "ok" or an error class.
func RecordMutation(entity, operation, result string) {
	MutationsTotal.WithLabelValues(entity, operation, result).Inc()
}

// RecordOrphan records a comment left without a parent reference.
func RecordOrphan() {
	OrphanedCommentsTotal.Inc()
}
