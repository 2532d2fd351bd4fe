// Package metrics provides Prometheus metrics for the squad manager service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns a registry and every metric the service exports. It is safe for concurrent use.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry
	runtimeMetrics   bool

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Match log
	matchesRecorded  prometheus.Counter
	matchesDeleted   prometheus.Counter
	aggregateRebuild prometheus.Histogram
}

// NewManager creates a manager on its own registry so tests never collide on the default one.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "squad",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route, method and status",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method", "status"})

	m.matchesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "matches",
		Name:      "recorded_total",
		Help:      "Total number of matches recorded",
	})

	m.matchesDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "matches",
		Name:      "deleted_total",
		Help:      "Total number of matches deleted",
	})

	m.aggregateRebuild = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "stats",
		Name:      "aggregate_rebuild_seconds",
		Help:      "Time spent recomputing materialized aggregates from the match log",
		Buckets:   m.histogramBuckets,
	})

	if m.runtimeMetrics {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// RecordHTTPRequest counts one request and observes its latency.
func (m *Manager) RecordHTTPRequest(route, method string, status int, took time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(route, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, code).Observe(took.Seconds())
}

func (m *Manager) MatchRecorded() { m.matchesRecorded.Inc() }

func (m *Manager) MatchDeleted() { m.matchesDeleted.Inc() }

// AggregatesRebuilt observes one recomputation of player, formation and rival aggregates.
func (m *Manager) AggregatesRebuilt(took time.Duration) { m.aggregateRebuild.Observe(took.Seconds()) }

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
