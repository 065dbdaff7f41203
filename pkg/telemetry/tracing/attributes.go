package tracing

import "go.opentelemetry.io/otel/attribute"

// Attribute keys for harbor spans. HTTP attributes follow the OpenTelemetry
// semantic conventions; the rest use the "harbor." namespace.
const (
	AttrHTTPMethod     = "http.request.method"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrURLPath        = "url.path"
	AttrURLFull        = "url.full"

	AttrRequestID   = "harbor.request_id"
	AttrOutcome     = "harbor.outcome"
	AttrTarget      = "harbor.fanout.target"
	AttrBranchIndex = "harbor.fanout.index"
	AttrBranchCount = "harbor.fanout.branches"
)

// BranchAttributes describes one fan-out branch.
func BranchAttributes(index int, target string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrBranchIndex, index),
		attribute.String(AttrTarget, target),
	}
}
