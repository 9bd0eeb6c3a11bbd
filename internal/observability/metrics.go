package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	adminRequestsTotal  *prometheus.CounterVec
	adminLatencySeconds *prometheus.HistogramVec
	adminErrorsTotal    *prometheus.CounterVec

	moderationTransitionsTotal *prometheus.CounterVec
	analyticsLatencySeconds    prometheus.Histogram
	uploadRequestsTotal        prometheus.Counter
	uploadRejectedTotal        *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for admin observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		moderationTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_transitions_total",
			Help: "Total number of moderation decisions by resulting status.",
		}, []string{"status"})

		analyticsLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "analytics_summary_latency_seconds",
			Help:    "Time spent assembling an analytics summary, cache hits included.",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.25, 0.5, 1.0, 2.5},
		})

		uploadRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "upload_requests_total",
			Help: "Total number of accepted image uploads.",
		})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upload_rejected_total",
			Help: "Total number of rejected image uploads by reason.",
		}, []string{"reason"})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			moderationTransitionsTotal,
			analyticsLatencySeconds,
			uploadRequestsTotal,
			uploadRejectedTotal,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// ModerationTransitions exposes the counter for moderation decisions.
func ModerationTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return moderationTransitionsTotal
}

// AnalyticsLatency exposes the histogram for analytics summary latency.
func AnalyticsLatency() prometheus.Histogram {
	RegisterMetrics()
	return analyticsLatencySeconds
}

// UploadRequests exposes the counter for accepted uploads.
func UploadRequests() prometheus.Counter {
	RegisterMetrics()
	return uploadRequestsTotal
}

// UploadRejected exposes the counter for rejected uploads.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}
