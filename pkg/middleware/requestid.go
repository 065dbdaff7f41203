package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"mercator-hq/harbor/pkg/telemetry/logging"
)

// maxRequestIDLength caps client supplied request IDs.
const maxRequestIDLength = 128

// RequestID stores a request ID in the context and the X-Request-ID
// response header. A client supplied ID is kept if it is short enough;
// otherwise a UUID is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(logging.RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		w.Header().Set(logging.RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), requestID)))
	})
}
