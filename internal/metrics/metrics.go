package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lunchlog"

// Places outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	OutcomeDisabled = "disabled"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// PlacesRequests counts places API calls.
	// Labels:
	//   - operation: "find_place", "details", "nearby"
	//   - outcome: "ok", "not_found", "error", "rejected", "disabled"
	PlacesRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "places_requests_total",
			Help:      "Total number of places API requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	PlacesRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "places_request_duration_seconds",
			Help:      "Duration of places API requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// PlacesCircuitState is 0 closed, 1 half-open, 2 open.
	PlacesCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "places_circuit_state",
			Help:      "State of the places API circuit breaker",
		},
	)

	VisitLedgerFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visit_ledger_failures_total",
			Help:      "Visit ledger updates that failed and were skipped",
		},
	)

	EnrichmentRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_runs_total",
			Help:      "Finished restaurant enrichment runs by status",
		},
		[]string{"status"},
	)

	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_requests_total",
			Help:      "Recommendation computations by kind",
		},
		[]string{"kind"},
	)

	ScheduledJobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduled_job_runs_total",
			Help:      "Scheduled job executions by job and status",
		},
		[]string{"job", "status"},
	)

	ScheduledJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scheduled_job_duration_seconds",
			Help:      "Duration of scheduled job executions in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8),
		},
		[]string{"job"},
	)
)
