package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/harbor/pkg/config"
)

// Trigger result label values.
const (
	TriggerInitiated = "initiated"
	TriggerIgnored   = "ignored"
)

// ShutdownMetrics tracks the graceful shutdown sequence.
type ShutdownMetrics struct {
	triggersTotal *prometheus.CounterVec
	drainDuration prometheus.Gauge
}

// NewShutdownMetrics creates and registers shutdown metrics.
func NewShutdownMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ShutdownMetrics {
	sm := &ShutdownMetrics{
		triggersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "shutdown",
				Name:      "triggers_total",
				Help:      "Shutdown trigger firings by source and whether they began the drain",
			},
			[]string{"source", "result"},
		),
		drainDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "shutdown",
				Name:      "drain_duration_seconds",
				Help:      "Time between the first shutdown trigger and the end of the drain",
			},
		),
	}

	registry.MustRegister(sm.triggersTotal, sm.drainDuration)
	return sm
}

// RecordTrigger counts one trigger firing.
func (sm *ShutdownMetrics) RecordTrigger(source string, initiated bool) {
	result := TriggerIgnored
	if initiated {
		result = TriggerInitiated
	}
	sm.triggersTotal.WithLabelValues(source, result).Inc()
}

// RecordDrain sets the drain duration.
func (sm *ShutdownMetrics) RecordDrain(d time.Duration) {
	sm.drainDuration.Set(d.Seconds())
}
