package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultHost              = "127.0.0.1"
	DefaultPort              = 3000
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultMaxHeaderBytes    = 1048576 // 1MB

	// Handler defaults
	DefaultPauseDefault = 500 * time.Millisecond

	// Downstream defaults
	DefaultDownstreamMaxIdleConns    = 16
	DefaultDownstreamIdleConnTimeout = 90 * time.Second

	// Shutdown defaults
	DefaultCleanupTimeout = 5 * time.Second
	DefaultHookTimeout    = 2 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsEnabled       = true
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "harbor"
	DefaultTracingEnabled       = false
	DefaultTracingSampler       = "always"
	DefaultTracingSampleRatio   = 1.0
	DefaultTracingEndpoint      = "localhost:4317"
	DefaultTracingServiceName   = "harbor"
	DefaultTracingInsecure      = true
	DefaultTracingExportTimeout = 10 * time.Second
)

// DefaultAggregatorTargets are the /multi fan-out targets.
func DefaultAggregatorTargets() []string {
	return []string{"/pause?1000", "/pause?5000"}
}

// DefaultDurationBuckets are the request duration histogram buckets.
func DefaultDurationBuckets() []float64 {
	return []float64{0.005, 0.05, 0.1, 0.5, 1, 2.5, 5, 10}
}

// Default returns a fully populated configuration. Boolean fields whose
// default is true, and the port, where 0 means an ephemeral bind, are only
// representable here, so files are decoded on top of this value rather than
// onto a zero Config.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port: DefaultPort,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
			Tracing: TracingConfig{
				Enabled:  DefaultTracingEnabled,
				Insecure: DefaultTracingInsecure,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets defaults for any fields that have zero values.
// It is idempotent.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// Handler defaults
	if cfg.Handlers.PauseDefault == 0 {
		cfg.Handlers.PauseDefault = DefaultPauseDefault
	}

	// Aggregator defaults
	if len(cfg.Aggregator.Targets) == 0 {
		cfg.Aggregator.Targets = DefaultAggregatorTargets()
	}

	// Downstream defaults
	if cfg.Downstream.MaxIdleConns == 0 {
		cfg.Downstream.MaxIdleConns = DefaultDownstreamMaxIdleConns
	}
	if cfg.Downstream.IdleConnTimeout == 0 {
		cfg.Downstream.IdleConnTimeout = DefaultDownstreamIdleConnTimeout
	}

	// Shutdown defaults
	if cfg.Shutdown.CleanupTimeout == 0 {
		cfg.Shutdown.CleanupTimeout = DefaultCleanupTimeout
	}
	if cfg.Shutdown.HookTimeout == 0 {
		cfg.Shutdown.HookTimeout = DefaultHookTimeout
	}

	// Logging defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}

	// Metrics defaults
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = DefaultDurationBuckets()
	}

	// Tracing defaults
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.ExportTimeout == 0 {
		cfg.Telemetry.Tracing.ExportTimeout = DefaultTracingExportTimeout
	}
}
