package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"mercator-hq/harbor/pkg/apperror"
	"mercator-hq/harbor/pkg/router"
	"mercator-hq/harbor/pkg/shutdown"
	"mercator-hq/harbor/pkg/telemetry/health"
)

// Response bodies.
const (
	RootBody             = "Hello from `/`"
	ShutdownInitiated    = "Initiating graceful shutdown"
	ShutdownInProgress   = "Graceful shutdown already in progress"
	IntentionalPanicText = "Intentional panic from /panic"
)

// ErrShuttingDown fails the readiness check once the drain has begun.
var ErrShuttingDown = errors.New("graceful shutdown in progress")

// maxPauseMillis keeps the requested pause representable as a Duration.
const maxPauseMillis = math.MaxInt64 / int64(time.Millisecond)

// Register installs every endpoint on rt and the shutdown readiness check
// on s.Health.
func Register(rt *router.Router, s *State) {
	rt.Handle("/", s.Root)
	rt.Handle("/port", s.PortHandler)
	rt.Handle("/pause", s.Pause)
	rt.Handle("/multi", s.Multi)
	rt.Handle("/shutdown", s.Shutdown)
	rt.Handle("/error", s.Error)
	rt.Handle("/panic", s.Panic)
	rt.Handle("/health", s.Liveness)
	rt.Handle("/ready", s.Readiness)
	if s.Metrics != nil && s.MetricsPath != "" {
		rt.Handle(s.MetricsPath, router.Adapt(s.Metrics))
	}

	if s.Health != nil {
		s.Health.RegisterCheck("shutdown", func(context.Context) error {
			if s.Coordinator.State() != shutdown.StateIdle {
				return ErrShuttingDown
			}
			return nil
		})
	}
}

// Root serves "/".
func (s *State) Root(context.Context, *http.Request) (*router.Response, error) {
	return router.Text(http.StatusOK, RootBody), nil
}

// PortHandler serves "/port" with the bound port in decimal.
func (s *State) PortHandler(context.Context, *http.Request) (*router.Response, error) {
	return router.Text(http.StatusOK, strconv.Itoa(s.Port)), nil
}

// Pause serves "/pause?<millis>". A missing or unparsable query selects
// PauseDefault. The sleep is not interrupted by client disconnects.
func (s *State) Pause(_ context.Context, r *http.Request) (*router.Response, error) {
	millis := ParsePause(r.URL.RawQuery, s.PauseDefault)
	time.Sleep(time.Duration(millis) * time.Millisecond)
	return router.Text(http.StatusOK, "Paused for "+strconv.FormatInt(millis, 10)+" ms."), nil
}

// ParsePause returns the pause length in milliseconds for a raw query.
func ParsePause(rawQuery string, def time.Duration) int64 {
	millis, err := strconv.ParseUint(rawQuery, 10, 64)
	if err != nil || millis > uint64(maxPauseMillis) {
		return def.Milliseconds()
	}
	return int64(millis)
}

// Multi serves "/multi" by fanning out to the configured targets.
func (s *State) Multi(ctx context.Context, _ *http.Request) (*router.Response, error) {
	result, err := s.Aggregator.Run(ctx)
	if err != nil {
		return nil, err
	}
	return router.Text(http.StatusOK, result.Summary()), nil
}

// Shutdown serves "/shutdown". Only the call that starts the drain reports
// ShutdownInitiated.
func (s *State) Shutdown(context.Context, *http.Request) (*router.Response, error) {
	if s.Coordinator.RequestShutdown() {
		return router.Text(http.StatusOK, ShutdownInitiated), nil
	}
	return router.Text(http.StatusOK, ShutdownInProgress), nil
}

// Error serves "/error" with a generic application error.
func (s *State) Error(context.Context, *http.Request) (*router.Response, error) {
	return nil, apperror.ErrApplication
}

// Panic serves "/panic" by panicking.
func (s *State) Panic(context.Context, *http.Request) (*router.Response, error) {
	panic(IntentionalPanicText)
}

// Liveness serves "/health".
func (s *State) Liveness(ctx context.Context, _ *http.Request) (*router.Response, error) {
	return router.JSON(http.StatusOK, s.checker().CheckLiveness(ctx))
}

// readiness is the /ready body.
type readiness struct {
	health.HealthStatus
	Shutdown shutdown.Status `json:"shutdown"`
}

// Readiness serves "/ready": 200 while idle, 503 once draining.
func (s *State) Readiness(ctx context.Context, _ *http.Request) (*router.Response, error) {
	status := s.checker().CheckReadiness(ctx)

	code := http.StatusOK
	if !status.Ready() {
		code = http.StatusServiceUnavailable
	}
	return router.JSON(code, readiness{HealthStatus: status, Shutdown: s.Coordinator.Snapshot()})
}

func (s *State) checker() *health.Checker {
	if s.Health == nil {
		return health.New(0)
	}
	return s.Health
}
