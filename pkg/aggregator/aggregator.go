package aggregator

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"mercator-hq/harbor/pkg/apperror"
	"mercator-hq/harbor/pkg/telemetry/tracing"
)

// Branch result labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Fetcher retrieves the body at a path and query.
type Fetcher interface {
	Fetch(ctx context.Context, pathAndQuery string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, pathAndQuery string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, pathAndQuery string) ([]byte, error) {
	return f(ctx, pathAndQuery)
}

// Recorder observes finished branches.
type Recorder interface {
	RecordBranch(target, result string, duration time.Duration)
}

// Aggregator runs a fixed list of targets concurrently.
type Aggregator struct {
	fetcher  Fetcher
	targets  []string
	tracer   *tracing.Tracer
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTracer records spans for the fan-out and each branch.
func WithTracer(t *tracing.Tracer) Option {
	return func(a *Aggregator) { a.tracer = t }
}

// WithRecorder records per-branch metrics.
func WithRecorder(r Recorder) Option {
	return func(a *Aggregator) { a.recorder = r }
}

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// New creates an aggregator over targets. The slice is copied.
func New(fetcher Fetcher, targets []string, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher: fetcher,
		targets: append([]string(nil), targets...),
		tracer:  tracing.Noop(),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Targets returns a copy of the configured targets.
func (a *Aggregator) Targets() []string {
	return append([]string(nil), a.targets...)
}

// Run fetches every target concurrently and waits for all of them. The
// returned Result is always complete; the error is Result.Err.
func (a *Aggregator) Run(ctx context.Context) (*Result, error) {
	// A client disconnect must not abort branches already in flight.
	ctx = context.WithoutCancel(ctx)

	ctx, span := a.tracer.Start(ctx, "fanout",
		trace.WithAttributes(attribute.Int(tracing.AttrBranchCount, len(a.targets))))
	defer span.End()

	result := &Result{
		Branches: make([]BranchResult, len(a.targets)),
		Started:  a.now(),
	}

	// Group without WithContext: one failure never cancels the others.
	var g errgroup.Group
	for i, target := range a.targets {
		g.Go(func() error {
			result.Branches[i] = a.branch(ctx, i, target)
			return nil
		})
	}
	_ = g.Wait()

	result.Elapsed = a.now().Sub(result.Started)

	err := result.Err()
	tracing.SetStatus(span, err)
	if err != nil {
		a.logger.ErrorContext(ctx, "fan-out failed", "error", err, "elapsed", result.Elapsed)
		return result, err
	}

	a.logger.DebugContext(ctx, "fan-out completed", "branches", len(result.Branches), "elapsed", result.Elapsed)
	return result, nil
}

func (a *Aggregator) branch(ctx context.Context, index int, target string) BranchResult {
	ctx, span := a.tracer.Start(ctx, "fanout.branch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.BranchAttributes(index, target)...))
	defer span.End()

	start := a.now()
	body, err := a.fetch(ctx, target)
	duration := a.now().Sub(start)

	label := ResultSuccess
	if err != nil {
		label = ResultError
		tracing.SetError(span, err)
		a.logger.WarnContext(ctx, "fan-out branch failed",
			"index", index,
			"target", target,
			"error", err,
			"duration", duration,
		)
	}
	if a.recorder != nil {
		a.recorder.RecordBranch(target, label, duration)
	}

	return BranchResult{
		Index:    index,
		Target:   target,
		Body:     body,
		Err:      err,
		Duration: duration,
	}
}

// fetch contains a panicking Fetcher. Branches run on their own goroutines,
// outside any request's recover, so an escaped panic would end the process.
func (a *Aggregator) fetch(ctx context.Context, target string) (body []byte, err error) {
	defer func() {
		if v := recover(); v != nil {
			body, err = nil, apperror.NewPanicError(v, debug.Stack())
		}
	}()
	return a.fetcher.Fetch(ctx, target)
}
