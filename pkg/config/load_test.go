package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harbor.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Handlers.PauseDefault != 500*time.Millisecond {
		t.Errorf("Handlers.PauseDefault = %v, want 500ms", cfg.Handlers.PauseDefault)
	}
	if got := cfg.Aggregator.Targets; len(got) != 2 || got[0] != "/pause?1000" || got[1] != "/pause?5000" {
		t.Errorf("Aggregator.Targets = %v", got)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Telemetry.Metrics.Enabled = false, want true")
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("Telemetry.Tracing.Enabled = true, want false")
	}
	if !cfg.Telemetry.Tracing.Insecure {
		t.Error("Telemetry.Tracing.Insecure = false, want true")
	}
}

func TestLoadConfig_ExplicitPortZero(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 0 {
		t.Errorf("Server.Port = %d, want 0 for an ephemeral bind", cfg.Server.Port)
	}
}

func TestLoadConfig_PortOmittedKeepsDefault(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 8080
handlers:
  pause_default: 250ms
aggregator:
  targets: ["/pause?10", "/port"]
telemetry:
  logging:
    level: debug
    format: text
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Handlers.PauseDefault != 250*time.Millisecond {
		t.Errorf("Handlers.PauseDefault = %v, want 250ms", cfg.Handlers.PauseDefault)
	}
	if got := cfg.Aggregator.Targets; len(got) != 2 || got[0] != "/pause?10" || got[1] != "/port" {
		t.Errorf("Aggregator.Targets = %v", got)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("Telemetry.Logging = %+v", cfg.Telemetry.Logging)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("Telemetry.Metrics.Enabled = true, want false")
	}
	// Untouched sections keep their defaults.
	if cfg.Shutdown.CleanupTimeout != DefaultCleanupTimeout {
		t.Errorf("Shutdown.CleanupTimeout = %v, want %v", cfg.Shutdown.CleanupTimeout, DefaultCleanupTimeout)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		missing    bool
		validation bool
	}{
		{name: "missing file", missing: true},
		{name: "malformed yaml", content: "server: [unterminated"},
		{name: "invalid level", content: "telemetry:\n  logging:\n    level: loud\n", validation: true},
		{name: "relative target", content: "aggregator:\n  targets: [\"pause\"]\n", validation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.yaml")
			if !tt.missing {
				path = writeConfig(t, tt.content)
			}

			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("LoadConfig() error = nil, want error")
			}

			var verr ValidationError
			if got := errors.As(err, &verr); got != tt.validation {
				t.Errorf("errors.As(ValidationError) = %v, want %v (err: %v)", got, tt.validation, err)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvPort, "4242")
	t.Setenv(EnvServerHost, "0.0.0.0")
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvMetricsEnabled, "false")
	t.Setenv(EnvTracingEnabled, "true")
	t.Setenv(EnvTracingEndpoint, "collector:4317")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 4242 {
		t.Errorf("Server.Port = %d, want 4242", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if !cfg.Telemetry.Tracing.Enabled || cfg.Telemetry.Tracing.Endpoint != "collector:4317" {
		t.Errorf("Tracing = %+v", cfg.Telemetry.Tracing)
	}
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	t.Setenv(EnvPort, "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
}

func TestApplyEnvOverrides_PortFallback(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
		want  int
	}{
		{name: "unset keeps file value", set: false, want: 8080},
		{name: "valid", value: "5000", set: true, want: 5000},
		{name: "empty", value: "", set: true, want: DefaultPort},
		{name: "non-numeric", value: "http", set: true, want: DefaultPort},
		{name: "zero", value: "0", set: true, want: 0},
		{name: "negative", value: "-1", set: true, want: DefaultPort},
		{name: "too large", value: "70000", set: true, want: DefaultPort},
		{name: "whitespace", value: " 7000 ", set: true, want: 7000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Server.Port = 8080

			applyEnvOverrides(cfg, func(key string) (string, bool) {
				if key == EnvPort && tt.set {
					return tt.value, true
				}
				return "", false
			})

			if cfg.Server.Port != tt.want {
				t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, tt.want)
			}
		})
	}
}

func TestApplyEnvOverrides_IgnoresBadBooleans(t *testing.T) {
	cfg := Default()
	applyEnvOverrides(cfg, func(key string) (string, bool) {
		if key == EnvMetricsEnabled {
			return "sometimes", true
		}
		return "", false
	})
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled changed by unparseable value")
	}
}

func TestServerConfig_Address(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 3000}
	if got := s.Address(); got != "127.0.0.1:3000" {
		t.Errorf("Address() = %q, want 127.0.0.1:3000", got)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)

	if cfg.Server != first.Server || cfg.Shutdown != first.Shutdown || cfg.Handlers != first.Handlers {
		t.Error("ApplyDefaults() is not idempotent")
	}
}
