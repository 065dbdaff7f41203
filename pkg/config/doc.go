// Package config loads harbor's configuration.
//
// Configuration is assembled in this order:
//
//  1. Built-in defaults (Default)
//  2. An optional YAML file
//  3. Environment variable overrides
//  4. Validation
//
// # File Format
//
//	server:
//	  host: 127.0.0.1
//	  port: 3000
//	handlers:
//	  pause_default: 500ms
//	aggregator:
//	  targets: ["/pause?1000", "/pause?5000"]
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	    path: /metrics
//	watch: true
//
// # Environment Variables
//
// PORT selects the listening port. A missing, empty, non-numeric or out of
// range value falls back to DefaultPort rather than failing.
//
// The HARBOR_ prefixed variables override individual fields:
//
//	HARBOR_SERVER_HOST
//	HARBOR_LOG_LEVEL
//	HARBOR_LOG_FORMAT
//	HARBOR_METRICS_ENABLED
//	HARBOR_TRACING_ENABLED
//	HARBOR_TRACING_ENDPOINT
//
// # Reloading
//
// Watcher observes the configuration file with fsnotify and hands a freshly
// loaded Config to a callback after each change settles. Only fields that are
// safe to change at runtime (currently the log level) are applied by the
// caller; listener settings need a restart.
package config
