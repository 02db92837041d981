package analysis

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records analysis outcomes and remote call latency.
type Metrics struct {
	outcomes *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates and registers the analysis collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scan_analysis_total",
				Help: "Total number of scan analyses by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scan_analysis_duration_seconds",
			Help:    "Duration of scan analyses, download through parse.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
	}

	for _, c := range []prometheus.Collector{m.outcomes, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(Outcome(err)).Inc()
	m.duration.Observe(elapsed.Seconds())
}
