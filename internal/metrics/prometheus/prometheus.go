// Package prometheus implements internal/metrics's collection contracts
// on top of github.com/prometheus/client_golang, grounded on the
// teacher's pkg/metrics/prometheus package (same promauto.With(reg)
// construction pattern, same nil-receiver-is-a-no-op discipline so a
// disabled metrics configuration costs nothing on the request path).
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/parsec-io/parsec-core/internal/metrics"
)

// RequestMetrics is the Prometheus-backed metrics.RequestMetrics.
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        *prometheus.GaugeVec
	activeConns     prometheus.Gauge
}

// NewRequestMetrics returns a Prometheus-backed RequestMetrics, or nil if
// metrics.InitRegistry was never called.
func NewRequestMetrics() *RequestMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &RequestMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "parsecd_requests_total",
				Help: "Total number of wire requests processed, by provider, opcode and status",
			},
			[]string{"provider", "opcode", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "parsecd_request_duration_milliseconds",
				Help: "Duration of a single request/response cycle in milliseconds",
				Buckets: []float64{
					0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000,
				},
			},
			[]string{"provider", "opcode"},
		),
		inFlight: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "parsecd_requests_in_flight",
				Help: "Number of requests currently being processed, by provider and opcode",
			},
			[]string{"provider", "opcode"},
		),
		activeConns: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "parsecd_active_connections",
				Help: "Number of currently accepted, not-yet-closed connections",
			},
		),
	}
}

func (m *RequestMetrics) RecordRequest(provider, opcode, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(provider, opcode, status).Inc()
	m.requestDuration.WithLabelValues(provider, opcode).Observe(float64(duration.Microseconds()) / 1000.0)
}

func (m *RequestMetrics) RecordRequestStart(provider, opcode string) {
	if m == nil {
		return
	}
	m.inFlight.WithLabelValues(provider, opcode).Inc()
}

func (m *RequestMetrics) RecordRequestEnd(provider, opcode string) {
	if m == nil {
		return
	}
	m.inFlight.WithLabelValues(provider, opcode).Dec()
}

func (m *RequestMetrics) SetActiveConnections(count int) {
	if m == nil {
		return
	}
	m.activeConns.Set(float64(count))
}

// KeyinfoMetrics is the Prometheus-backed metrics.KeyinfoMetrics.
type KeyinfoMetrics struct {
	opsTotal    *prometheus.CounterVec
	opDuration  *prometheus.HistogramVec
	opErrors    *prometheus.CounterVec
}

// NewKeyinfoMetrics returns a Prometheus-backed KeyinfoMetrics, or nil if
// metrics.InitRegistry was never called.
func NewKeyinfoMetrics() *KeyinfoMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &KeyinfoMetrics{
		opsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "parsecd_keyinfo_operations_total",
				Help: "Total number of key-info persistence operations, by backend and operation",
			},
			[]string{"backend", "op"},
		),
		opDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "parsecd_keyinfo_operation_duration_milliseconds",
				Help:    "Duration of a key-info persistence operation in milliseconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500},
			},
			[]string{"backend", "op"},
		),
		opErrors: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "parsecd_keyinfo_operation_errors_total",
				Help: "Total number of failed key-info persistence operations, by backend and operation",
			},
			[]string{"backend", "op"},
		),
	}
}

func (m *KeyinfoMetrics) RecordOperation(backend, op string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.opsTotal.WithLabelValues(backend, op).Inc()
	m.opDuration.WithLabelValues(backend, op).Observe(float64(duration.Microseconds()) / 1000.0)
	if err != nil {
		m.opErrors.WithLabelValues(backend, op).Inc()
	}
}
