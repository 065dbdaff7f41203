// Package tracing wires OpenTelemetry tracing for harbor.
//
// When tracing is disabled New returns a Tracer backed by a noop provider,
// so callers never need to check before starting spans. When enabled, spans
// are batched to an OTLP gRPC collector.
//
// # Spans
//
// The server middleware starts one server span per request, named after the
// request path. The aggregator starts a "fanout" span per /multi call and a
// "fanout.branch" child per target. Downstream calls inject the current span
// context as a W3C traceparent header, so branch requests received by the
// service's own listener join the same trace.
//
// # Sampling
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    sampler: ratio
//	    sample_ratio: 0.1
//
// Every sampler is wrapped in ParentBased so the decision made at the root
// of a trace is honoured by all children.
package tracing
