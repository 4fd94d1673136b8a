package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// apiKeyHeader is accepted as an alternative to a Bearer token.
const apiKeyHeader = "X-API-Key"

// publicPaths serve probes and scrapes without a key.
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// APIKeyMiddleware rejects requests that carry no configured API key, either
// as "Authorization: Bearer <key>" or in X-API-Key. No keys disables the check.
func APIKeyMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := credential(r)
			if msg != "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, msg)
				return
			}
			if !knownKey(keys, token) {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// credential extracts the presented key. A non-empty msg explains why none was usable.
func credential(r *http.Request) (token, msg string) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, value, ok := strings.Cut(auth, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(value) == "" {
			return "", "authorization header must use Bearer scheme"
		}
		return strings.TrimSpace(value), ""
	}
	if key := strings.TrimSpace(r.Header.Get(apiKeyHeader)); key != "" {
		return key, ""
	}
	return "", "missing api key"
}

// knownKey compares against every key so timing does not reveal a prefix match.
func knownKey(keys [][]byte, token string) bool {
	presented := []byte(token)
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, presented)
	}
	return found == 1
}
