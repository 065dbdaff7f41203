package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mercator-hq/harbor/pkg/config"
)

// DefaultMaxCardinality bounds the distinct request path labels.
const DefaultMaxCardinality = 1000

// OverflowLabel replaces a path once the cardinality limit is reached.
const OverflowLabel = "other"

// Collector records harbor's metrics into its own registry.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	fanoutMetrics   *FanoutMetrics
	shutdownMetrics *ShutdownMetrics

	paths *CardinalityLimiter
}

// NewCollector creates a collector. If registry is nil a fresh registry is
// created and the Go runtime and process collectors are added to it.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = config.DefaultDurationBuckets()
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		requestMetrics:  NewRequestMetrics(cfg, registry),
		fanoutMetrics:   NewFanoutMetrics(cfg, registry),
		shutdownMetrics: NewShutdownMetrics(cfg, registry),
		paths:           NewCardinalityLimiter(DefaultMaxCardinality),
	}
}

// Enabled reports whether recording is active.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRequest records one completed request.
func (c *Collector) RecordRequest(path, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	if !c.paths.Allow(path) {
		path = OverflowLabel
	}
	c.requestMetrics.RecordRequest(path, outcome, duration)
}

// RecordBranch records one fan-out branch.
func (c *Collector) RecordBranch(target, result string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.fanoutMetrics.RecordBranch(target, result, duration)
}

// RecordShutdownTrigger records a fired shutdown trigger.
func (c *Collector) RecordShutdownTrigger(source string, initiated bool) {
	if !c.config.Enabled {
		return
	}
	c.shutdownMetrics.RecordTrigger(source, initiated)
}

// RecordDrainDuration records how long the drain took.
func (c *Collector) RecordDrainDuration(d time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.shutdownMetrics.RecordDrain(d)
}

// CardinalityLimiter limits the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting up to maxCardinality
// distinct values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already known or still fits under the limit.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
