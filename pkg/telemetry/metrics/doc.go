// Package metrics exposes harbor's Prometheus metrics.
//
// A Collector owns a private registry and three metric families:
//
//	harbor_http_requests_total{path,outcome}
//	harbor_http_request_duration_seconds{path}
//	harbor_fanout_branch_duration_seconds{target,result}
//	harbor_shutdown_triggers_total{source,result}
//	harbor_shutdown_drain_duration_seconds
//
// Collector satisfies the recorder interfaces of the middleware, aggregator
// and shutdown packages, so it is handed to each of them at wiring time.
// When metrics are disabled every Record method returns immediately.
//
// Request paths are client controlled. Label sets beyond the cardinality
// limit are folded into the path "other".
package metrics
