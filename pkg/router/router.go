// Package router maps request paths to handlers by exact string match.
package router

import (
	"context"
	"net/http"
	"sort"
	"sync"
)

// NotFoundBody is the body returned for unmatched paths.
const NotFoundBody = "Not found"

// Handler produces a response for a request. A non-nil error is treated as an
// application failure by the isolation middleware; the handler must not write
// anything itself.
type Handler func(ctx context.Context, r *http.Request) (*Response, error)

// Router dispatches on r.URL.Path. Method and query string are ignored and
// there are no wildcards or path parameters.
type Router struct {
	mu     sync.RWMutex
	routes map[string]Handler
}

// New creates an empty router.
func New() *Router {
	return &Router{
		routes: make(map[string]Handler),
	}
}

// Handle registers h for path, replacing any previous registration.
func (rt *Router) Handle(path string, h Handler) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.routes[path] = h
}

// Route returns the handler registered for path, or NotFound.
func (rt *Router) Route(path string) Handler {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if h, ok := rt.routes[path]; ok {
		return h
	}
	return NotFound
}

// Dispatch routes r and invokes the matched handler. It is itself a Handler
// and is what the isolation middleware wraps.
func (rt *Router) Dispatch(ctx context.Context, r *http.Request) (*Response, error) {
	return rt.Route(r.URL.Path)(ctx, r)
}

// Paths returns the registered paths in sorted order.
func (rt *Router) Paths() []string {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	paths := make([]string, 0, len(rt.routes))
	for p := range rt.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// NotFound answers 404 with a fixed body.
func NotFound(ctx context.Context, r *http.Request) (*Response, error) {
	return Text(http.StatusNotFound, NotFoundBody), nil
}
