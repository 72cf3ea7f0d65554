package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects analysis and API metrics with Prometheus.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	analysesTotal    *prometheus.CounterVec
	findingsTotal    *prometheus.CounterVec
	cacheEventsTotal *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	httpRequests     *prometheus.CounterVec

	handler http.Handler
}

// New registers the collectors on a fresh registry
func New(namespace string) *Metrics {
	return NewWithRegistry(namespace, prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on registry and serves it
func NewWithRegistry(namespace string, registry *prometheus.Registry) *Metrics {
	m := &Metrics{}

	m.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of analyses by result",
		},
		[]string{"result"},
	)

	m.findingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Total number of findings emitted by category and severity",
		},
		[]string{"category", "severity"},
	)

	m.cacheEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Analysis cache hits and misses",
		},
		[]string{"event"},
	)

	m.analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time taken to analyze a document",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	registry.MustRegister(
		m.analysesTotal,
		m.findingsTotal,
		m.cacheEventsTotal,
		m.analysisDuration,
		m.httpRequests,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return m
}

// ObserveAnalysis records one analysis outcome ("ok", "cached" or an error kind)
func (m *Metrics) ObserveAnalysis(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(result).Inc()
	m.analysisDuration.Observe(duration.Seconds())
}

// ObserveFinding records one emitted finding
func (m *Metrics) ObserveFinding(category, severity string) {
	if m == nil {
		return
	}
	m.findingsTotal.WithLabelValues(category, severity).Inc()
}

// CacheEvent records a cache "hit" or "miss"
func (m *Metrics) CacheEvent(event string) {
	if m == nil {
		return
	}
	m.cacheEventsTotal.WithLabelValues(event).Inc()
}

// ObserveRequest records one API request
func (m *Metrics) ObserveRequest(method, path string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}
