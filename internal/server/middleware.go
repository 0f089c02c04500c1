package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const requestIDKey contextKey = "requestID"

const healthPath = "/api/health"

// requestID propagates an X-Request-ID header, minting a ULID when the
// caller did not send one, and stores it in the request context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = strings.ToLower(ulid.Make().String())
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// requestIDFrom returns the request ID stored by the requestID middleware.
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// apiKeyAuth validates the X-API-Key header with a constant-time compare.
// An empty configured key disables authentication; the health endpoint is
// always open so load balancers can probe without credentials.
func apiKeyAuth(apiKey string) func(http.Handler) http.Handler {
	key := []byte(apiKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			open := apiKey == "" ||
				(r.Method == http.MethodGet && r.URL.Path == healthPath)
			if !open && subtle.ConstantTimeCompare([]byte(r.Header.Get("X-API-Key")), key) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
