package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shelf_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelf_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_storage_operations_total",
			Help: "Storage adapter operations by kind and result",
		},
		[]string{"op", "result"},
	)

	BookmarksAddedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shelf_bookmarks_added_total",
			Help: "Total number of bookmarks added through the form",
		},
	)

	SubmissionsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_submissions_rejected_total",
			Help: "Form submissions that did not add a bookmark, by reason",
		},
		[]string{"reason"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"route"},
	)
)

// Storage operation results.
const (
	ResultOK        = "ok"
	ResultAbsent    = "absent"
	ResultMalformed = "malformed"
	ResultError     = "error"
)

// ObserveStorage counts one storage adapter operation.
func ObserveStorage(op, result string) {
	StorageOperationsTotal.WithLabelValues(op, result).Inc()
}
