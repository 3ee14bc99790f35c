package rate

import (
	"karat-desk/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeRejected = "rejected"
)

// Metrics captures rate refresh health. A nil *Metrics is valid and records nothing.
type Metrics struct {
	refreshes   *prometheus.CounterVec
	current     prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// NewMetrics creates the refresh instruments and registers them with reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "karat_desk",
			Subsystem: "rate",
			Name:      "refresh_total",
			Help:      "Metal rate refresh attempts by outcome.",
		}, []string{"outcome"}),
		current: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "karat_desk",
			Subsystem: "rate",
			Name:      "per_gram",
			Help:      "Current metal rate per gram.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "karat_desk",
			Subsystem: "rate",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.refreshes, m.current, m.lastSuccess)
	}
	return m
}

func (m *Metrics) observeSuccess(snap domain.RateSnapshot) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcomeSuccess).Inc()
	m.current.Set(snap.RatePerGram.InexactFloat64())
	m.lastSuccess.Set(float64(snap.ReadAt.Unix()))
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcomeFailure).Inc()
}

func (m *Metrics) observeRejected() {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcomeRejected).Inc()
}
