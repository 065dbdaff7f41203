// Package health runs liveness and readiness checks.
//
// Liveness only reports that the process is able to answer. Readiness runs
// every registered check concurrently, each under its own timeout, and is
// "ready" only when all of them pass. harbor registers a "shutdown" check
// that fails once the drain has begun, so load balancers stop routing new
// traffic to an instance that is going away.
package health
