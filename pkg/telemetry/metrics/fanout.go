package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/harbor/pkg/config"
)

// FanoutMetrics tracks /multi branches. Targets come from configuration so
// their cardinality is bounded.
type FanoutMetrics struct {
	branchDuration *prometheus.HistogramVec
}

// NewFanoutMetrics creates and registers fan-out metrics.
func NewFanoutMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *FanoutMetrics {
	fm := &FanoutMetrics{
		branchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "fanout",
				Name:      "branch_duration_seconds",
				Help:      "Duration of individual fan-out branches in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"target", "result"},
		),
	}

	registry.MustRegister(fm.branchDuration)
	return fm
}

// RecordBranch observes one branch duration.
func (fm *FanoutMetrics) RecordBranch(target, result string, duration time.Duration) {
	fm.branchDuration.WithLabelValues(target, result).Observe(duration.Seconds())
}
