package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/harbor/pkg/apperror"
	"mercator-hq/harbor/pkg/router"
	"mercator-hq/harbor/pkg/telemetry/logging"
	"mercator-hq/harbor/pkg/telemetry/tracing"
)

// InternalErrorBody is the only body a client sees for a failed request.
const InternalErrorBody = "Internal server error"

// Recorder observes completed requests.
type Recorder interface {
	RecordRequest(path, outcome string, duration time.Duration)
}

type isolateConfig struct {
	logger   *slog.Logger
	recorder Recorder
}

// IsolateOption configures Isolate.
type IsolateOption func(*isolateConfig)

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) IsolateOption {
	return func(c *isolateConfig) { c.logger = l }
}

// WithRecorder records request metrics.
func WithRecorder(r Recorder) IsolateOption {
	return func(c *isolateConfig) { c.recorder = r }
}

// InternalError returns the generic failure response.
func InternalError() *router.Response {
	return router.Text(http.StatusInternalServerError, InternalErrorBody)
}

// Isolate adapts h to net/http, containing any error or panic it produces.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Isolate(h router.Handler, opts ...IsolateOption) http.Handler {
	cfg := isolateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := cfg.logger
		if logger == nil {
			logger = slog.Default()
		}

		start := time.Now()
		outcome := Run(ctx, h, r)

		resp := outcome.Response
		if outcome.Failed() {
			resp = InternalError()
		}
		duration := time.Since(start)

		attrs := []any{
			"path", r.URL.RequestURI(),
			"method", r.Method,
			"status", resp.Status,
			"outcome", outcome.Kind.String(),
			"duration", duration,
			"request_id", logging.GetRequestID(ctx),
		}
		level := slog.LevelInfo
		switch outcome.Kind {
		case OutcomeApplicationError:
			level = slog.LevelError
			attrs = append(attrs, "error", outcome.Err)
		case OutcomeAbnormalTermination:
			level = slog.LevelError
			if pe, ok := apperror.AsPanic(outcome.Err); ok {
				attrs = append(attrs, "description", pe.Description, "stack", string(pe.Stack))
			}
		}
		logger.Log(ctx, level, "request completed", attrs...)

		if cfg.recorder != nil {
			cfg.recorder.RecordRequest(r.URL.Path, outcome.Kind.String(), duration)
		}

		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attribute.String(tracing.AttrOutcome, outcome.Kind.String()))
		if outcome.Failed() {
			tracing.SetError(span, outcome.Err)
		}

		if err := resp.WriteTo(w); err != nil {
			logger.DebugContext(ctx, "failed to write response", "error", err)
		}
	})
}

// Run invokes h and classifies the result. It never panics except to
// re-raise http.ErrAbortHandler.
func Run(ctx context.Context, h router.Handler, r *http.Request) (outcome Outcome) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if v == http.ErrAbortHandler {
			panic(v)
		}
		outcome = AbnormalTermination(apperror.NewPanicError(v, debug.Stack()))
	}()

	resp, err := h(ctx, r)
	if err != nil {
		return ApplicationError(err)
	}
	if resp == nil {
		return ApplicationError(fmt.Errorf("%w: handler returned no response", apperror.ErrApplication))
	}
	return Success(resp)
}
