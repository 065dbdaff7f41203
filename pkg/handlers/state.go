package handlers

import (
	"net/http"
	"time"

	"mercator-hq/harbor/pkg/aggregator"
	"mercator-hq/harbor/pkg/shutdown"
	"mercator-hq/harbor/pkg/telemetry/health"
)

// State is shared by pointer between all request goroutines. Its fields are
// set once at startup; mutable shutdown state lives in the Coordinator.
type State struct {
	// Port is the port the listener actually bound.
	Port int

	// PauseDefault is used by /pause when the query is missing or invalid.
	PauseDefault time.Duration

	// Coordinator owns the shutdown triggers and drain timestamp.
	Coordinator *shutdown.Coordinator

	// Aggregator serves /multi.
	Aggregator *aggregator.Aggregator

	// Health runs readiness checks.
	Health *health.Checker

	// Metrics serves the Prometheus exposition. Nil disables the route.
	Metrics http.Handler

	// MetricsPath is where Metrics is mounted.
	MetricsPath string
}
