package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus counters shared by every cache registered with
// the same Registerer. A nil *Metrics is valid and records nothing.
type Metrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	expirations   *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	evictions     *prometheus.CounterVec
}

// NewMetrics registers the cache counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	counter := func(name, help string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gophblog",
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		}, []string{"cache"})
	}
	return &Metrics{
		hits:          counter("hits_total", "Lookups answered from the cache."),
		misses:        counter("misses_total", "Lookups that found no fresh entry."),
		expirations:   counter("expirations_total", "Entries dropped on read because their TTL elapsed."),
		invalidations: counter("invalidations_total", "Entries dropped by explicit invalidation."),
		evictions:     counter("evictions_total", "Entries dropped to respect the size bound."),
	}
}

func (m *Metrics) hit(name string) {
	if m != nil {
		m.hits.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) missed(name string) {
	if m != nil {
		m.misses.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) expired(name string) {
	if m != nil {
		m.expirations.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) invalidated(name string) {
	if m != nil {
		m.invalidations.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) evicted(name string) {
	if m != nil {
		m.evictions.WithLabelValues(name).Inc()
	}
}
