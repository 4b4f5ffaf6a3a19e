package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AgentKey returns middleware that guards the ingestion endpoint with a
// shared secret. The agent sends the key either in the X-Agent-Key header
// or as a bearer token. Comparison is constant-time.
func AgentKey(key string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-Agent-Key")
			if presented == "" {
				presented = extractBearerToken(r)
			}
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
