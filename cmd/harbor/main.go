// Harbor is a small HTTP service for exercising graceful shutdown, failure
// isolation and concurrent fan-out.
//
// It serves a handful of fixed endpoints, turns handler errors and panics
// into a generic 500 without disturbing other requests, and drains in-flight
// work when either the /shutdown endpoint or SIGINT/SIGTERM asks it to stop.
//
// Usage:
//
//	# Start on the port named by $PORT (default 3000)
//	harbor run
//
//	# Start with a configuration file and live log level reload
//	harbor run --config harbor.yaml
//
//	# Ask a running instance to shut down
//	harbor shutdown --addr 127.0.0.1:3000
//
//	# Show version information
//	harbor version
package main

func main() {
	Execute()
}
