package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		fields []string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:   "negative port",
			mutate: func(c *Config) { c.Server.Port = -1 },
			fields: []string{"server.port"},
		},
		{
			name:   "ephemeral port allowed",
			mutate: func(c *Config) { c.Server.Port = 0 },
		},
		{
			name:   "empty host",
			mutate: func(c *Config) { c.Server.Host = "" },
			fields: []string{"server.host"},
		},
		{
			name:   "negative pause default",
			mutate: func(c *Config) { c.Handlers.PauseDefault = -time.Second },
			fields: []string{"handlers.pause_default"},
		},
		{
			name:   "target without slash",
			mutate: func(c *Config) { c.Aggregator.Targets = []string{"/port", "pause?1"} },
			fields: []string{"aggregator.targets[1]"},
		},
		{
			name:   "zero cleanup timeout",
			mutate: func(c *Config) { c.Shutdown.CleanupTimeout = 0 },
			fields: []string{"shutdown.cleanup_timeout"},
		},
		{
			name:   "metrics path without slash",
			mutate: func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			fields: []string{"telemetry.metrics.path"},
		},
		{
			name: "metrics path ignored when disabled",
			mutate: func(c *Config) {
				c.Telemetry.Metrics.Enabled = false
				c.Telemetry.Metrics.Path = "metrics"
			},
		},
		{
			name:   "unsorted buckets",
			mutate: func(c *Config) { c.Telemetry.Metrics.DurationBuckets = []float64{1, 0.5} },
			fields: []string{"telemetry.metrics.duration_buckets"},
		},
		{
			name: "tracing without endpoint",
			mutate: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
				c.Telemetry.Tracing.Endpoint = ""
			},
			fields: []string{"telemetry.tracing.endpoint"},
		},
		{
			name: "multiple errors collected",
			mutate: func(c *Config) {
				c.Telemetry.Logging.Level = "verbose"
				c.Telemetry.Logging.Format = "xml"
				c.Telemetry.Tracing.Sampler = "sometimes"
				c.Telemetry.Tracing.SampleRatio = 2
			},
			fields: []string{
				"telemetry.logging.level",
				"telemetry.logging.format",
				"telemetry.tracing.sampler",
				"telemetry.tracing.sample_ratio",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if len(verr.Errors) != len(tt.fields) {
				t.Fatalf("got %d field errors, want %d: %v", len(verr.Errors), len(tt.fields), verr)
			}
			for i, field := range tt.fields {
				if verr.Errors[i].Field != field {
					t.Errorf("Errors[%d].Field = %q, want %q", i, verr.Errors[i].Field, field)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "server.port", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: server.port: bad" {
		t.Errorf("single Error() = %q", got)
	}

	multi := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "x"},
		{Field: "b", Message: "y"},
	}}
	got := multi.Error()
	if !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - a: x") || !strings.Contains(got, "  - b: y") {
		t.Errorf("multi Error() = %q", got)
	}
}
