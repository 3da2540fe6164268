// Package metrics provides Prometheus metrics for the projection service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service metrics and the registry they are exported from.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	projectionsTotal   prometheus.Counter
	projectionFailures prometheus.Counter
	scenariosProjected prometheus.Counter
	yearsProjected     prometheus.Counter
	projectionDuration prometheus.Histogram

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry registers the metrics on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a metrics manager on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "sir_forecast",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.projectionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "projections_total",
		Help:      "Total number of projection requests computed",
	})
	m.projectionFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "projection_failures_total",
		Help:      "Total number of projection requests that failed",
	})
	m.scenariosProjected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "scenarios_projected_total",
		Help:      "Total number of scenarios projected",
	})
	m.yearsProjected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "years_projected_total",
		Help:      "Total number of projected years over all scenarios",
	})
	m.projectionDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "projection_duration_seconds",
		Help:      "Time spent computing a projection request",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration by endpoint and method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
	return m
}

// ObserveProjection records one projection request covering the given number
// of scenarios and years.
func (m *Manager) ObserveProjection(scenarios, years int, duration time.Duration, err error) {
	m.projectionsTotal.Inc()
	m.projectionDuration.Observe(duration.Seconds())
	if err != nil {
		m.projectionFailures.Inc()
		return
	}
	m.scenariosProjected.Add(float64(scenarios))
	m.yearsProjected.Add(float64(years))
}

// ObserveRequest records one HTTP request.
func (m *Manager) ObserveRequest(endpoint, method string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exporting the metrics.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records every request passing through next under endpoint.
func (m *Manager) Middleware(endpoint string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.ObserveRequest(endpoint, r.Method, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
