package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ssargent/fleetdb/pkg/controller"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API. It also implements
// controller.Observer so store and snapshot outcomes are counted where they
// happen.
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Store metrics
	storeOperationsTotal *prometheus.CounterVec
	storeRecords         *prometheus.GaugeVec
	storeCapacity        prometheus.Gauge

	// Snapshot metrics
	snapshotOperationsTotal *prometheus.CounterVec
	snapshotBytes           prometheus.Gauge

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

var _ controller.Observer = (*Metrics)(nil)

// NewMetrics creates all Prometheus metrics and registers them with reg.
// A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		// HTTP request metrics
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleet_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fleet_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fleet_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		// Store metrics
		storeOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleet_store_operations_total",
				Help: "Total number of store operations by outcome",
			},
			[]string{"operation", "status"},
		),

		storeRecords: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fleet_store_records",
				Help: "Number of records in the store by kind",
			},
			[]string{"kind"},
		),

		storeCapacity: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fleet_store_capacity",
				Help: "Number of slots in the store's backing array",
			},
		),

		// Snapshot metrics
		snapshotOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleet_snapshot_operations_total",
				Help: "Total number of snapshot saves and loads by outcome",
			},
			[]string{"operation", "status"},
		),

		snapshotBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fleet_snapshot_bytes",
				Help: "Size of the last saved snapshot in bytes",
			},
		),

		// Authentication metrics
		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleet_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		// Health check metrics
		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleet_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveOperation counts a store operation outcome
func (m *Metrics) ObserveOperation(op, status string) {
	m.storeOperationsTotal.WithLabelValues(op, status).Inc()
}

// ObserveSnapshot counts a snapshot save or load
func (m *Metrics) ObserveSnapshot(op, status string, bytes int) {
	m.snapshotOperationsTotal.WithLabelValues(op, status).Inc()
	if op == "save" && status == controller.StatusOK {
		m.snapshotBytes.Set(float64(bytes))
	}
}

// ObserveRecords updates the record gauges
func (m *Metrics) ObserveRecords(stats controller.Stats) {
	for kind, n := range stats.ByKind {
		m.storeRecords.WithLabelValues(kind).Set(float64(n))
	}
	m.storeCapacity.Set(float64(stats.Capacity))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Record request in flight
		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAPIKey := r.Header.Get("X-API-Key") != ""

			rw, ok := w.(*responseWriter)
			if !ok {
				rw = &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			}

			next(h).ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
