package middleware

import (
	"crypto/subtle"
	"net/http"
)

// Paths reachable without a key, for load balancer probes.
var authExemptPaths = map[string]bool{
	"/health": true,
}

// APIKeyAuth validates the X-API-Key header against the configured key set.
func APIKeyAuth(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authExemptPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			if !keyMatches(r.Header.Get("X-API-Key"), keys) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// keyMatches compares against every configured key in constant time, so the
// response latency reveals neither a near-miss nor which key matched.
func keyMatches(key string, keys []string) bool {
	if key == "" {
		return false
	}

	match := false
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(k)) == 1 {
			match = true
		}
	}
	return match
}
