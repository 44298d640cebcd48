// Package request provides request ID middleware. Every request gets a unique
// ID, reused from the X-Request-ID header when a proxy already assigned one,
// so log lines across services correlate.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"noteboard/pkg/requestcontext"
)

const headerRequestID = "X-Request-ID"

// RequestID assigns a request ID, stores it in the context, and echoes it in
// the response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(headerRequestID, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
