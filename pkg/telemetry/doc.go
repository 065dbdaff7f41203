// Package telemetry groups harbor's observability packages.
//
// # Components
//
//   - logging: slog setup with a runtime adjustable level and request IDs
//   - metrics: Prometheus collector for requests, fan-out branches and shutdown
//   - tracing: OpenTelemetry tracer with OTLP gRPC export
//   - health: liveness and readiness checks
//
// Each component is constructed from its section of config.TelemetryConfig
// and degrades to a no-op when disabled.
package telemetry
