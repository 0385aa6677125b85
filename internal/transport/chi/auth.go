package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// openPaths never require a token.
var openPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
	"/version": true,
}

const adminPrefix = "/admin/"

// AuthConfig lists the accepted bearer tokens.
//
// APIKeys grant access to the resource and admin read routes. AdminKeys, when
// set, are the only tokens accepted for POST /admin/*, which changes the core's
// config and schema; they also work everywhere an API key does. With no keys at
// all authentication is off.
type AuthConfig struct {
	APIKeys   []string
	AdminKeys []string
}

type keySet [][]byte

func newKeySet(keys []string) keySet {
	out := make(keySet, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, []byte(k))
		}
	}
	return out
}

// contains compares against every key in constant time.
func (ks keySet) contains(token string) bool {
	found := 0
	for _, k := range ks {
		found |= subtle.ConstantTimeCompare(k, []byte(token))
	}
	return found == 1
}

// BearerAuthMiddleware validates "Authorization: Bearer <token>" headers.
func BearerAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	apiKeys := newKeySet(cfg.APIKeys)
	adminKeys := newKeySet(cfg.AdminKeys)

	return func(next http.Handler) http.Handler {
		if len(apiKeys) == 0 && len(adminKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(w, r)
			if !ok {
				return
			}

			adminWrite := r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, adminPrefix)
			switch {
			case adminKeys.contains(token):
			case adminWrite && len(adminKeys) > 0:
				writeError(w, http.StatusForbidden, CodeForbidden, "admin key required")
				return
			case !apiKeys.contains(token):
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token or writes a 401.
func bearerToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
		return "", false
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(auth, bearerPrefix) {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
		return "", false
	}
	return strings.TrimSpace(auth[len(bearerPrefix):]), true
}
