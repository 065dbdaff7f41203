// Package middleware contains harbor's HTTP middleware.
//
// Isolate is the boundary between net/http and the application's
// router.Handler functions. It converts every request into exactly one
// Outcome, writes the matching response and logs one "request completed"
// line. A handler that returns an error or panics produces a 500 with the
// body "Internal server error" and never affects other requests.
//
// RequestID and Tracing are ordinary http.Handler wrappers placed in front
// of Isolate so that its log line and span carry the request ID and trace.
//
//	handler := middleware.Chain(
//		middleware.Isolate(r.Dispatch, middleware.WithRecorder(collector)),
//		middleware.Tracing(tracer),
//		middleware.RequestID,
//	)
package middleware
