package shutdown

import "sync"

// Source identifies where a shutdown request came from.
type Source string

const (
	// SourceAdmin is the administrative HTTP endpoint.
	SourceAdmin Source = "admin"

	// SourceSignal is an OS termination signal.
	SourceSignal Source = "signal"
)

// String implements fmt.Stringer.
func (s Source) String() string {
	return string(s)
}

// Trigger is a single-use signal. Fire succeeds exactly once; later calls are
// no-ops that return false. The coordinator closes its Draining channel when
// the winning trigger fires.
type Trigger struct {
	source Source

	mu    sync.Mutex
	fired bool
}

// NewTrigger creates an unconsumed trigger for source.
func NewTrigger(source Source) *Trigger {
	return &Trigger{source: source}
}

// Fire consumes the trigger. It returns true only for the call that consumed it.
func (t *Trigger) Fire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fired {
		return false
	}
	t.fired = true
	return true
}

// Source returns the trigger's source.
func (t *Trigger) Source() Source {
	return t.source
}
