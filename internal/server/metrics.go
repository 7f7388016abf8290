package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for the HTTP adapter.
type Metrics struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	computationsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics instance backed by a private registry so
// repeated test servers never collide on registration.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cipher_http_requests_total",
				Help: "HTTP requests by method, path and status code",
			},
			[]string{"method", "path", "code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cipher_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		computationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cipher_computations_total",
				Help: "Cipher computations by mode, modulus and outcome",
			},
			[]string{"mode", "mod", "outcome"},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.computationsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, path string, code int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveComputation records one engine invocation outcome.
func (m *Metrics) ObserveComputation(mode string, modulus int, outcome string) {
	m.computationsTotal.WithLabelValues(mode, strconv.Itoa(modulus), outcome).Inc()
}
