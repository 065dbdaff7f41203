// Package downstream issues outbound HTTP GET requests against a fixed
// base address, normally the service's own listener.
//
// Any HTTP status counts as a completed call; only failures to build the
// request or to complete the exchange are errors. Requests carry the
// caller's trace context and request ID. No timeout is applied, so a call
// runs until the peer answers or the connection fails.
package downstream
