package chat

import "github.com/prometheus/client_golang/prometheus"

// Fragments exposes the fragment counter for tests.
func (m *Metrics) Fragments() prometheus.Counter { return m.fragments }

// Skipped exposes the skipped-frame counter for tests.
func (m *Metrics) Skipped() prometheus.Counter { return m.skipped }

// Cycles exposes the cycle counter for one outcome for tests.
func (m *Metrics) Cycles(outcome string) prometheus.Counter {
	return m.cycles.WithLabelValues(outcome)
}
