// Package server assembles harbor's HTTP listener.
//
// A Server binds its socket in Listen, before any handler state is built, so
// that /port and the /multi fan-out see the port that was actually bound even
// when port 0 is configured. Serve then accepts connections until the
// shutdown coordinator starts draining, waits for every in-flight request to
// finish and returns the measured drain duration.
//
// Every route is wrapped, from the outside in, by request ID assignment, a
// server span and the failure isolating middleware:
//
//	srv := server.New(cfg, server.WithCoordinator(coord), server.WithLogger(logger))
//	if err := srv.Listen(); err != nil {
//	    return err
//	}
//	took, err := srv.Serve()
//
// There is no drain timeout. A request that never completes keeps Serve from
// returning.
package server
