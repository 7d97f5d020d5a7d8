// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultDenied  = "denied"
	ResultInvalid = "invalid"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	DraftsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_drafts_saved_total",
			Help: "Total number of debounced draft writes that reached the store",
		},
	)

	DraftSaveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_draft_save_failures_total",
			Help: "Total number of debounced draft writes that failed",
		},
	)

	DraftsPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_drafts_pending",
			Help: "Number of drafts waiting for their quiet period to elapse",
		},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_submissions_total",
			Help: "Total number of final submit attempts by result",
		},
		[]string{"result"},
	)

	SignIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_signins_total",
			Help: "Total number of sign-in attempts by result",
		},
		[]string{"result"},
	)

	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_exports_total",
			Help: "Total number of spreadsheet exports by result",
		},
		[]string{"result"},
	)
)
