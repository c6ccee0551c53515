// Package metrics defines the metrics collection contracts parsecd's
// request path and key-info backends report through, and the shared
// Prometheus registry they're collected into. Package
// internal/metrics/prometheus supplies the concrete implementation;
// everything else in the service talks to these interfaces so metrics
// stay optional (pass nil for zero overhead) the way the teacher's
// pkg/metrics does for its own adapter metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu       sync.RWMutex
	enabled  bool
	registry *prometheus.Registry
)

// InitRegistry enables metrics collection and creates the process-wide
// Prometheus registry. Call once at startup before constructing any
// metrics-backed component.
func InitRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	registry = prometheus.NewRegistry()
	enabled = true
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// GetRegistry returns the process-wide registry. Callers must check
// IsEnabled first; GetRegistry panics if InitRegistry was never called.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	if registry == nil {
		panic("metrics: GetRegistry called before InitRegistry")
	}
	return registry
}

// RequestMetrics is the observability contract for one wire
// request/response cycle, implemented by
// internal/metrics/prometheus.RequestMetrics. Pass nil anywhere this is
// accepted to disable collection with zero overhead.
type RequestMetrics interface {
	// RecordRequest records one completed request.
	RecordRequest(provider, opcode string, status string, duration time.Duration)

	// RecordRequestStart increments the in-flight request gauge.
	RecordRequestStart(provider, opcode string)

	// RecordRequestEnd decrements the in-flight request gauge.
	RecordRequestEnd(provider, opcode string)

	// SetActiveConnections updates the current connection count.
	SetActiveConnections(count int)
}

// KeyinfoMetrics is the observability contract for key-info persistence
// backend operations.
type KeyinfoMetrics interface {
	// RecordOperation records one Get/Insert/Remove/List* call against a
	// keyinfo.Manager backend.
	RecordOperation(backend, op string, duration time.Duration, err error)
}
