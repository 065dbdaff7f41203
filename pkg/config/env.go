package config

import (
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvPort            = "PORT"
	EnvServerHost      = "HARBOR_SERVER_HOST"
	EnvLogLevel        = "HARBOR_LOG_LEVEL"
	EnvLogFormat       = "HARBOR_LOG_FORMAT"
	EnvMetricsEnabled  = "HARBOR_METRICS_ENABLED"
	EnvTracingEnabled  = "HARBOR_TRACING_ENABLED"
	EnvTracingEndpoint = "HARBOR_TRACING_ENDPOINT"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// applyEnvOverrides applies environment variable overrides to cfg.
// Unparseable values are ignored, except PORT which falls back to DefaultPort.
func applyEnvOverrides(cfg *Config, lookup lookupFunc) {
	if val, ok := lookup(EnvPort); ok {
		cfg.Server.Port = ParsePort(val)
	}
	if val, ok := lookup(EnvServerHost); ok && val != "" {
		cfg.Server.Host = val
	}

	if val, ok := lookup(EnvLogLevel); ok && val != "" {
		cfg.Telemetry.Logging.Level = strings.ToLower(val)
	}
	if val, ok := lookup(EnvLogFormat); ok && val != "" {
		cfg.Telemetry.Logging.Format = strings.ToLower(val)
	}

	if val, ok := lookup(EnvMetricsEnabled); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val, ok := lookup(EnvTracingEnabled); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val, ok := lookup(EnvTracingEndpoint); ok && val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}

// ParsePort parses a TCP port number. Anything that is not an integer in
// 0..65535 yields DefaultPort.
func ParsePort(val string) int {
	port, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || port < 0 || port > 65535 {
		return DefaultPort
	}
	return port
}
