package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics exposes counters/histograms for the turn pipeline.
type EngineMetrics struct {
	turnsTotal        *prometheus.CounterVec
	groundingRewrites prometheus.Counter
	externalRetries   *prometheus.CounterVec
	turnDuration      *prometheus.HistogramVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifesure",
			Subsystem: "engine",
			Name:      "turns_total",
			Help:      "Total processed conversation turns",
		}, []string{"stage", "intent"}),
		groundingRewrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lifesure",
			Subsystem: "engine",
			Name:      "grounding_rewrites_total",
			Help:      "Replies rewritten for unsupported policy mentions",
		}),
		externalRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifesure",
			Subsystem: "engine",
			Name:      "external_retries_total",
			Help:      "Retried external calls by call type",
		}, []string{"call"}),
		turnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lifesure",
			Subsystem: "engine",
			Name:      "turn_duration_seconds",
			Help:      "End-to-end turn processing latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.groundingRewrites, m.externalRetries, m.turnDuration)
	return m
}

func (m *EngineMetrics) ObserveTurn(stage, intent string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(stage, intent).Inc()
}

func (m *EngineMetrics) ObserveGroundingRewrite() {
	if m == nil {
		return
	}
	m.groundingRewrites.Inc()
}

func (m *EngineMetrics) ObserveExternalRetry(call string) {
	if m == nil {
		return
	}
	m.externalRetries.WithLabelValues(call).Inc()
}

func (m *EngineMetrics) ObserveTurnDuration(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.turnDuration.WithLabelValues(stage).Observe(seconds)
}
