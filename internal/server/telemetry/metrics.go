// Package telemetry holds the server's Prometheus collectors and the
// OpenTelemetry tracer setup.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AuthOperations counts auth gateway calls by operation and outcome.
	// Outcomes are error classes, never identifiers.
	AuthOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vocabkeeper",
			Name:      "auth_operations_total",
			Help:      "Total number of register, login and resolve calls by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// OwnershipDenials counts requests rejected by the ownership guard.
	OwnershipDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vocabkeeper",
			Name:      "ownership_denials_total",
			Help:      "Total number of resource accesses denied by the ownership guard",
		},
		[]string{"resource"},
	)

	// HTTPRequests counts served HTTP requests by route template and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vocabkeeper",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes request latency by route template.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vocabkeeper",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	once sync.Once
)

// InitMetrics registers all collectors with the default registry. Safe to
// call more than once.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(AuthOperations)
		prometheus.DefaultRegisterer.Register(OwnershipDenials)
		prometheus.DefaultRegisterer.Register(HTTPRequests)
		prometheus.DefaultRegisterer.Register(HTTPDuration)
	})
}
