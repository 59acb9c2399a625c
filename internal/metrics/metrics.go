// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Domain metrics
	leadOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_lead_operations_total",
			Help: "Total number of lead operations",
		},
		[]string{"operation"},
	)

	stageTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_transitions_total",
			Help: "Total number of pipeline stage transitions",
		},
		[]string{"to_stage"},
	)

	activitiesLoggedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_activities_logged_total",
			Help: "Total number of activities logged",
		},
		[]string{"type"},
	)

	// Degrade-path metrics
	fallbackReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_fallback_reads_total",
			Help: "Reads served from a fallback dataset instead of the record store",
		},
		[]string{"source"},
	)

	optimisticWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_optimistic_writes_total",
			Help: "Writes applied to the local snapshot because the record store was unreachable",
		},
		[]string{"operation"},
	)
)

// RecordLeadOperation increments the counter for lead CRUD operations.
func RecordLeadOperation(operation string) {
	leadOperationsTotal.WithLabelValues(operation).Inc()
}

// RecordStageTransition increments the counter for stage transitions.
func RecordStageTransition(toStage string) {
	stageTransitionsTotal.WithLabelValues(toStage).Inc()
}

// RecordActivityLogged increments the counter for logged activities.
func RecordActivityLogged(activityType string) {
	activitiesLoggedTotal.WithLabelValues(activityType).Inc()
}

// RecordFallbackRead increments the counter for degraded reads.
func RecordFallbackRead(source string) {
	fallbackReadsTotal.WithLabelValues(source).Inc()
}

// RecordOptimisticWrite increments the counter for locally applied writes.
func RecordOptimisticWrite(operation string) {
	optimisticWritesTotal.WithLabelValues(operation).Inc()
}
