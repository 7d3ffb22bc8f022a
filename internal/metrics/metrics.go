// Package metrics provides Prometheus metrics for casetrail.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors used by the server and services.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	VersionsCreatedTotal prometheus.Counter
	RunsCreatedTotal     prometheus.Counter
	ResultsSavedTotal    *prometheus.CounterVec

	ServerStartTime time.Time
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	m := &Metrics{ServerStartTime: time.Now()}

	m.RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casetrail_requests_total",
			Help: "Total number of RPC/HTTP requests",
		},
		[]string{"method", "status"},
	)
	m.RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "casetrail_request_duration_seconds",
			Help:    "Duration of RPC/HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	m.VersionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casetrail_case_versions_created_total",
		Help: "Total number of case versions written",
	})
	m.RunsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casetrail_runs_created_total",
		Help: "Total number of runs created",
	})
	m.ResultsSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casetrail_results_saved_total",
			Help: "Total number of results saved, by derived overall status",
		},
		[]string{"status"},
	)
	return m
}

// ObserveRequest records one request outcome with its duration.
func (m *Metrics) ObserveRequest(method, status string, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}
