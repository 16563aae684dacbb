package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Refresh outcomes recorded by AnalyticsMetrics.
const (
	RefreshOutcomeCompleted = "completed"
	RefreshOutcomeFailed    = "failed"
	RefreshOutcomeCooldown  = "cooldown"
)

// AnalyticsMetrics tracks the cost and outcome of analytics recomputation.
type AnalyticsMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

func NewAnalyticsMetrics(reg prometheus.Registerer) *AnalyticsMetrics {
	if reg == nil {
		return &AnalyticsMetrics{}
	}
	m := &AnalyticsMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "refresh_duration_seconds",
			Help:      "Wall-clock time spent recomputing analytics metrics.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"metric"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "refresh_total",
			Help:      "Analytics refresh attempts by outcome.",
		}, []string{"outcome", "triggered_by"}),
	}
	reg.MustRegister(m.duration, m.outcomes)
	return m
}

// ObserveMetric records the computation time of one metric; use "all" for the whole refresh.
func (m *AnalyticsMetrics) ObserveMetric(metric string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(metric)).Observe(d.Seconds())
}

func (m *AnalyticsMetrics) IncOutcome(outcome, triggeredBy string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(outcome), normalizeLabel(triggeredBy)).Inc()
}
