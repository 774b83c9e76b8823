package transport

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records GMP command outcomes.
type Metrics struct {
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the GMP command metrics on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gmp_commands_total",
				Help: "Total number of GMP commands sent to gsad.",
			},
			[]string{"cmd", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gmp_command_duration_seconds",
				Help:    "Duration of GMP commands in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"cmd"},
		),
	}

	for _, c := range []prometheus.Collector{m.commands, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(cmd string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(ReasonOf(err))
		if outcome == "" {
			outcome = string(ReasonError)
		}
	}
	m.commands.WithLabelValues(cmd, outcome).Inc()
	m.duration.WithLabelValues(cmd).Observe(elapsed.Seconds())
}
