package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// maxRequestIDLength bounds client supplied identifiers
const maxRequestIDLength = 128

// RequestID reuses the client's X-Request-ID or generates a UUID, stores it in
// the request context, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), requestID)))
	})
}
