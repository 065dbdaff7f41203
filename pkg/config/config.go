package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	// Server contains listener settings.
	Server ServerConfig `yaml:"server"`

	// Handlers contains endpoint behaviour settings.
	Handlers HandlersConfig `yaml:"handlers"`

	// Aggregator contains the /multi fan-out targets.
	Aggregator AggregatorConfig `yaml:"aggregator"`

	// Downstream contains outbound HTTP client settings.
	Downstream DownstreamConfig `yaml:"downstream"`

	// Shutdown contains settings for the post-drain cleanup phase.
	Shutdown ShutdownConfig `yaml:"shutdown"`

	// Telemetry contains logging, metrics and tracing settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch enables live reloading of the configuration file.
	// Default: false
	Watch bool `yaml:"watch"`
}

// ServerConfig contains configuration for the HTTP listener.
type ServerConfig struct {
	// Host is the interface to bind.
	// Default: "127.0.0.1"
	Host string `yaml:"host"`

	// Port is the TCP port to bind. The PORT environment variable wins.
	// Default: 3000
	Port int `yaml:"port"`

	// ReadHeaderTimeout bounds how long a client may take to send headers.
	// Default: 10s
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	// IdleTimeout is how long keep-alive connections may sit idle.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// MaxHeaderBytes caps request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// Address returns host:port.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// HandlersConfig contains endpoint settings.
type HandlersConfig struct {
	// PauseDefault is the /pause delay used when the query is missing or
	// cannot be parsed.
	// Default: 500ms
	PauseDefault time.Duration `yaml:"pause_default"`
}

// AggregatorConfig contains configuration for the /multi fan-out.
type AggregatorConfig struct {
	// Targets are path-and-query strings fetched concurrently from the
	// service's own listener, in issue order.
	// Default: ["/pause?1000", "/pause?5000"]
	Targets []string `yaml:"targets"`
}

// DownstreamConfig contains outbound client settings. There is deliberately
// no request timeout: in-flight downstream calls are never cancelled.
type DownstreamConfig struct {
	// MaxIdleConns is the idle connection pool size per host.
	// Default: 16
	MaxIdleConns int `yaml:"max_idle_conns"`

	// IdleConnTimeout is how long idle pooled connections are kept.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// ShutdownConfig contains settings for cleanup hooks run after the drain.
// The drain itself is unbounded.
type ShutdownConfig struct {
	// CleanupTimeout bounds all post-drain cleanup hooks together.
	// Default: 5s
	CleanupTimeout time.Duration `yaml:"cleanup_timeout"`

	// HookTimeout bounds each individual cleanup hook.
	// Default: 2s
	HookTimeout time.Duration `yaml:"hook_timeout"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "harbor"
	Namespace string `yaml:"namespace"`

	// DurationBuckets are histogram buckets in seconds.
	// Default: [0.005, 0.05, 0.1, 0.5, 1, 2.5, 5, 10]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler is one of "always", "never", "ratio".
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is reported as service.name.
	// Default: "harbor"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS to the collector.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// ExportTimeout bounds each export call.
	// Default: 10s
	ExportTimeout time.Duration `yaml:"export_timeout"`
}
