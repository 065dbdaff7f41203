package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/harbor/pkg/config"
)

// RequestMetrics tracks inbound HTTP requests.
//
// Metrics:
//   - harbor_http_requests_total: requests by path and outcome
//   - harbor_http_request_duration_seconds: request duration by path
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by outcome",
			},
			[]string{"path", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"path"},
		),
	}

	registry.MustRegister(rm.requestsTotal, rm.requestDuration)
	return rm
}

// RecordRequest increments the request counter and observes the duration.
func (rm *RequestMetrics) RecordRequest(path, outcome string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(path, outcome).Inc()
	rm.requestDuration.WithLabelValues(path).Observe(duration.Seconds())
}
