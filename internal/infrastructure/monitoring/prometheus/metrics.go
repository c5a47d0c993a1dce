// Package prometheus registers and exposes the service metrics.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Metrics holds every collector the service records into.  Each Metrics
// value owns its registry, so tests can build isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ReportsGeneratedTotal    *prometheus.CounterVec
	ReportGenerationDuration *prometheus.HistogramVec

	LookupRequestsTotal *prometheus.CounterVec
	LookupDuration      *prometheus.HistogramVec

	ResponseCacheEventsTotal *prometheus.CounterVec
	ArtifactCacheEventsTotal *prometheus.CounterVec
}

// NewMetrics builds and registers all collectors on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration.",
			Buckets:   durationBuckets,
		}, []string{"method", "path"}),

		ReportsGeneratedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_generated_total",
			Help:      "Report generations by outcome.",
		}, []string{"outcome"}),

		ReportGenerationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_generation_duration_seconds",
			Help:      "End-to-end report generation duration.",
			Buckets:   durationBuckets,
		}, []string{"outcome"}),

		LookupRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_requests_total",
			Help:      "Upstream family-tree calls by outcome.",
		}, []string{"outcome"}),

		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Upstream family-tree call duration.",
			Buckets:   durationBuckets,
		}, []string{"outcome"}),

		ResponseCacheEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_events_total",
			Help:      "Upstream response cache hits and misses.",
		}, []string{"event"}),

		ArtifactCacheEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_cache_events_total",
			Help:      "Stored artifact cache hits and misses.",
		}, []string{"event"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReportsGeneratedTotal,
		m.ReportGenerationDuration,
		m.LookupRequestsTotal,
		m.LookupDuration,
		m.ResponseCacheEventsTotal,
		m.ArtifactCacheEventsTotal,
	)
	return m
}

// Handler serves this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveGeneration implements report.Observer.
func (m *Metrics) ObserveGeneration(outcome string, elapsed time.Duration) {
	m.ReportsGeneratedTotal.WithLabelValues(outcome).Inc()
	m.ReportGenerationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveArtifactCache implements report.Observer.
func (m *Metrics) ObserveArtifactCache(hit bool) {
	m.ArtifactCacheEventsTotal.WithLabelValues(cacheEvent(hit)).Inc()
}

// ObserveLookup implements lookup.Observer.
func (m *Metrics) ObserveLookup(outcome string, elapsed time.Duration) {
	m.LookupRequestsTotal.WithLabelValues(outcome).Inc()
	m.LookupDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveResponseCache implements the redis cache observer.
func (m *Metrics) ObserveResponseCache(hit bool) {
	m.ResponseCacheEventsTotal.WithLabelValues(cacheEvent(hit)).Inc()
}

func cacheEvent(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
