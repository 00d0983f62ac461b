package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/qalab/page-test-gen/internal/platform/requestid"
)

// RequestID assigns a unique request ID to each request. An incoming
// X-Request-ID header is reused so analyses triggered by an upstream proxy
// stay correlatable; otherwise a new UUID v4 is generated. The ID is echoed
// back in the response for the same reason.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", id)
		ctx := requestid.NewContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
