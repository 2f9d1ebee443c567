package chat

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cycle outcomes recorded by Metrics.
const (
	outcomeSuccess   = "success"
	outcomeFailure   = "failure"
	outcomeCancelled = "cancelled"
)

// Metrics records send-cycle counters and latencies. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	cycles    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	fragments prometheus.Counter
	skipped   prometheus.Counter
}

// NewMetrics creates the cycle metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_cycles_total",
				Help: "Send cycles by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_cycle_duration_seconds",
				Help:    "Send cycle duration in seconds, from request to terminal state.",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"outcome"},
		),
		fragments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_fragments_total",
			Help: "Reply text fragments received.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_frames_skipped_total",
			Help: "Stream frames dropped because their payload failed to decode.",
		}),
	}
	for _, c := range []prometheus.Collector{m.cycles, m.duration, m.fragments, m.skipped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeCycle(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) observeReply(fragments, skipped int) {
	if m == nil {
		return
	}
	m.fragments.Add(float64(fragments))
	m.skipped.Add(float64(skipped))
}
