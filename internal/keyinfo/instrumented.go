package keyinfo

import (
	"time"

	"github.com/parsec-io/parsec-core/internal/metrics"
)

// instrumented wraps a Manager, reporting every call's duration and
// outcome through a metrics.KeyinfoMetrics sink.
type instrumented struct {
	backend string
	next    Manager
	metrics metrics.KeyinfoMetrics
}

// Instrument wraps m so every call is recorded against sink, tagged with
// backend (e.g. "memory", "ondisk", "badger", "sql"). A nil sink makes
// this a no-op passthrough, so callers can wrap unconditionally.
func Instrument(m Manager, backend string, sink metrics.KeyinfoMetrics) Manager {
	if sink == nil {
		return m
	}
	return &instrumented{backend: backend, next: m, metrics: sink}
}

func (i *instrumented) record(op string, start time.Time, err error) {
	i.metrics.RecordOperation(i.backend, op, time.Since(start), err)
}

func (i *instrumented) Get(triple KeyTriple) (KeyInfo, bool, error) {
	start := time.Now()
	info, ok, err := i.next.Get(triple)
	i.record("get", start, err)
	return info, ok, err
}

func (i *instrumented) GetAll(provider uint8) (map[KeyTriple]KeyInfo, error) {
	start := time.Now()
	all, err := i.next.GetAll(provider)
	i.record("get_all", start, err)
	return all, err
}

func (i *instrumented) Insert(triple KeyTriple, info KeyInfo) (KeyInfo, bool, error) {
	start := time.Now()
	prev, ok, err := i.next.Insert(triple, info)
	i.record("insert", start, err)
	return prev, ok, err
}

func (i *instrumented) Remove(triple KeyTriple) (KeyInfo, bool, error) {
	start := time.Now()
	prev, ok, err := i.next.Remove(triple)
	i.record("remove", start, err)
	return prev, ok, err
}

func (i *instrumented) Exists(triple KeyTriple) (bool, error) {
	start := time.Now()
	ok, err := i.next.Exists(triple)
	i.record("exists", start, err)
	return ok, err
}

func (i *instrumented) ListKeys(application string) ([]KeyTriple, error) {
	start := time.Now()
	keys, err := i.next.ListKeys(application)
	i.record("list_keys", start, err)
	return keys, err
}

func (i *instrumented) ListClients() ([]string, error) {
	start := time.Now()
	clients, err := i.next.ListClients()
	i.record("list_clients", start, err)
	return clients, err
}
