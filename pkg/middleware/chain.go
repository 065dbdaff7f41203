package middleware

import "net/http"

// Chain wraps h with mws. The last middleware is the outermost, so
//
//	Chain(h, Tracing(t), RequestID)
//
// runs RequestID, then Tracing, then h.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for _, mw := range mws {
		h = mw(h)
	}
	return h
}
