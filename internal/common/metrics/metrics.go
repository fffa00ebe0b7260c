// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_remote_requests_total",
			Help: "Total number of requests sent to the eligibility service",
		},
		[]string{"endpoint", "outcome"},
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_remote_request_duration_seconds",
			Help:    "Duration of eligibility service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_cache_lookups_total",
			Help: "Catalog cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Compute submissions by outcome status",
		},
		[]string{"status"},
	)

	ValidationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_validation_errors_total",
			Help: "Validation errors raised before submission, by section",
		},
		[]string{"section"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_active_sessions",
			Help: "Number of live sessions held by the session API",
		},
	)
)
