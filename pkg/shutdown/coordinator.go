package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrNotDraining is returned by MarkStopped before any trigger has fired.
var ErrNotDraining = errors.New("shutdown has not been initiated")

// State is the coordinator's lifecycle state. Transitions only move forward.
type State int

const (
	// StateIdle means no trigger has been consumed.
	StateIdle State = iota

	// StateDraining means a trigger fired and new connections are refused.
	StateDraining

	// StateStopped means every in-flight request has completed.
	StateStopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Recorder receives shutdown measurements. The metrics collector implements it.
type Recorder interface {
	RecordShutdownTrigger(source string, initiated bool)
	RecordDrainDuration(d time.Duration)
}

// Status is a point-in-time view of the coordinator.
type Status struct {
	State         State         `json:"-"`
	StateName     string        `json:"state"`
	Source        Source        `json:"source,omitempty"`
	StartedAt     time.Time     `json:"started_at,omitzero"`
	DrainDuration time.Duration `json:"drain_duration_ns,omitempty"`
}

// Coordinator arbitrates between the admin and signal triggers and times the
// drain.
type Coordinator struct {
	admin  *Trigger
	signal *Trigger

	// mu guards the fields below and makes fire-and-record atomic.
	mu            sync.Mutex
	state         State
	source        Source
	startedAt     time.Time
	drainDuration time.Duration

	draining chan struct{}
	stopped  chan struct{}

	now      func() time.Time
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) {
		c.recorder = r
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCoordinator creates an idle coordinator with fresh admin and signal triggers.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		admin:    NewTrigger(SourceAdmin),
		signal:   NewTrigger(SourceSignal),
		state:    StateIdle,
		draining: make(chan struct{}),
		stopped:  make(chan struct{}),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestShutdown fires the admin trigger. It returns true only if this call
// began the drain; false means a shutdown is already in progress.
func (c *Coordinator) RequestShutdown() bool {
	return c.fire(c.admin)
}

// Notify fires the signal trigger. Same return semantics as RequestShutdown.
func (c *Coordinator) Notify() bool {
	return c.fire(c.signal)
}

// WatchSignals fires the signal trigger when ctx is done. The watcher exits
// once the coordinator reaches Stopped, whichever happens first.
func (c *Coordinator) WatchSignals(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			c.Notify()
		case <-c.stopped:
		}
	}()
}

func (c *Coordinator) fire(t *Trigger) bool {
	c.mu.Lock()
	consumed := t.Fire()
	initiated := consumed && c.state == StateIdle
	if initiated {
		c.state = StateDraining
		c.source = t.Source()
		c.startedAt = c.now()
		close(c.draining)
	}
	winner, startedAt := c.source, c.startedAt
	c.mu.Unlock()

	if c.recorder != nil {
		c.recorder.RecordShutdownTrigger(t.Source().String(), initiated)
	}

	switch {
	case initiated:
		c.logger.Info("initiating graceful shutdown",
			"source", t.Source().String(),
		)
	case consumed:
		c.logger.Info("shutdown trigger fired after drain began",
			"source", t.Source().String(),
			"initiated_by", winner.String(),
			"since", c.now().Sub(startedAt).String(),
		)
	default:
		c.logger.Debug("shutdown trigger already consumed",
			"source", t.Source().String(),
		)
	}

	return initiated
}

// Draining returns a channel that is closed when the drain begins.
func (c *Coordinator) Draining() <-chan struct{} {
	return c.draining
}

// Stopped returns a channel that is closed once MarkStopped succeeds.
func (c *Coordinator) Stopped() <-chan struct{} {
	return c.stopped
}

// MarkStopped records that all in-flight requests have finished and returns
// the elapsed time since the drain began. Calling it again returns the same
// duration.
func (c *Coordinator) MarkStopped() (time.Duration, error) {
	c.mu.Lock()
	switch c.state {
	case StateIdle:
		c.mu.Unlock()
		return 0, ErrNotDraining
	case StateStopped:
		d := c.drainDuration
		c.mu.Unlock()
		return d, nil
	}

	c.drainDuration = c.now().Sub(c.startedAt)
	c.state = StateStopped
	close(c.stopped)
	d, source := c.drainDuration, c.source
	c.mu.Unlock()

	if c.recorder != nil {
		c.recorder.RecordDrainDuration(d)
	}
	c.logger.Info("drain complete",
		"source", source.String(),
		"drain_duration", d.String(),
	)

	return d, nil
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the current status.
func (c *Coordinator) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:         c.state,
		StateName:     c.state.String(),
		Source:        c.source,
		StartedAt:     c.startedAt,
		DrainDuration: c.drainDuration,
	}
}
