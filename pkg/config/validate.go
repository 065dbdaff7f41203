package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.port").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate validates the entire configuration. All field errors are
// collected and returned together as a ValidationError.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateHandlers(&cfg.Handlers)...)
	errs = append(errs, validateAggregator(&cfg.Aggregator)...)
	errs = append(errs, validateDownstream(&cfg.Downstream)...)
	errs = append(errs, validateShutdown(&cfg.Shutdown)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.Host == "" {
		errs = append(errs, FieldError{Field: "server.host", Message: "host is required"})
	}
	// Port 0 asks the kernel for an ephemeral port.
	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, FieldError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 0 and 65535, got %d", cfg.Port),
		})
	}
	if cfg.ReadHeaderTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_header_timeout", Message: "timeout must not be negative"})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.idle_timeout", Message: "timeout must not be negative"})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_header_bytes", Message: "must not be negative"})
	}

	return errs
}

func validateHandlers(cfg *HandlersConfig) []FieldError {
	if cfg.PauseDefault < 0 {
		return []FieldError{{Field: "handlers.pause_default", Message: "duration must not be negative"}}
	}
	return nil
}

func validateAggregator(cfg *AggregatorConfig) []FieldError {
	var errs []FieldError

	for i, target := range cfg.Targets {
		field := fmt.Sprintf("aggregator.targets[%d]", i)
		if !strings.HasPrefix(target, "/") {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("target %q must be a path starting with '/'", target),
			})
			continue
		}
		if _, err := url.ParseRequestURI(target); err != nil {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("invalid target %q: %v", target, err),
			})
		}
	}

	return errs
}

func validateDownstream(cfg *DownstreamConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{Field: "downstream.max_idle_conns", Message: "must not be negative"})
	}
	if cfg.IdleConnTimeout < 0 {
		errs = append(errs, FieldError{Field: "downstream.idle_conn_timeout", Message: "timeout must not be negative"})
	}

	return errs
}

func validateShutdown(cfg *ShutdownConfig) []FieldError {
	var errs []FieldError

	if cfg.CleanupTimeout <= 0 {
		errs = append(errs, FieldError{Field: "shutdown.cleanup_timeout", Message: "timeout must be positive"})
	}
	if cfg.HookTimeout <= 0 {
		errs = append(errs, FieldError{Field: "shutdown.hook_timeout", Message: "timeout must be positive"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q, must be one of: debug, info, warn, error", cfg.Logging.Level),
		})
	}

	// Validate logging format
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q, must be one of: json, text", cfg.Logging.Format),
		})
	}

	// Validate metrics
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: fmt.Sprintf("metrics path %q must start with '/'", cfg.Metrics.Path),
		})
	}
	for i, b := range cfg.Metrics.DurationBuckets {
		if i > 0 && b <= cfg.Metrics.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	// Validate tracing
	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q, must be one of: always, never, ratio", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: fmt.Sprintf("sample ratio must be between 0 and 1, got %v", cfg.Tracing.SampleRatio),
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	return errs
}
