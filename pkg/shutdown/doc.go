// Package shutdown coordinates a one-time graceful shutdown that may be
// requested from more than one place.
//
// # Triggers
//
// A Coordinator owns two single-use triggers: one for the administrative
// HTTP endpoint and one for OS termination signals. Each trigger can be
// consumed at most once. Whichever source fires first moves the coordinator
// from Idle to Draining and decides the recorded start timestamp; every later
// fire from either source is a no-op.
//
//	coord := shutdown.NewCoordinator(shutdown.WithLogger(logger))
//	coord.WatchSignals(signalCtx)
//
//	// in the /shutdown handler
//	if coord.RequestShutdown() {
//	    // this request started the drain
//	}
//
// # Lifecycle
//
//	Idle --fire--> Draining --MarkStopped--> Stopped
//
// Draining is closed when the drain begins and is what the listener waits
// on. MarkStopped is called by the listener once every in-flight request has
// completed and returns how long the drain took. There is no drain timeout.
package shutdown
