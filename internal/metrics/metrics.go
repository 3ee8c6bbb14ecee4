// Package metrics exposes Prometheus instruments for processing runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fieldmap/internal/diagnostic"
)

// Metrics groups the processing instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	entries  *prometheus.CounterVec
	audits   *prometheus.CounterVec
	duration prometheus.Histogram
}

// New creates the instruments and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		entries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldmap_entries_total",
				Help: "Total number of concrete mapping entries processed",
			},
			[]string{"kind"},
		),
		audits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldmap_audits_total",
				Help: "Total number of audits recorded by processing runs",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fieldmap_process_duration_seconds",
				Help:    "Duration of processing runs",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	for _, c := range []prometheus.Collector{m.entries, m.audits, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// MustNew is like New but panics when registration fails.
func MustNew(reg prometheus.Registerer) *Metrics {
	m, err := New(reg)
	if err != nil {
		panic(err)
	}

	return m
}

// EntryProcessed counts one concrete entry of kind.
func (m *Metrics) EntryProcessed(kind string) {
	if m == nil {
		return
	}

	m.entries.WithLabelValues(kind).Inc()
}

// Audited counts audits by status.
func (m *Metrics) Audited(audits diagnostic.Diagnostics) {
	if m == nil {
		return
	}

	for _, a := range audits {
		m.audits.WithLabelValues(a.Status.String()).Inc()
	}
}

// ObserveProcess records the duration of one run started at start.
func (m *Metrics) ObserveProcess(start time.Time) {
	if m == nil {
		return
	}

	m.duration.Observe(time.Since(start).Seconds())
}
