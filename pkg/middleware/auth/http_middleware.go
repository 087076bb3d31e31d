package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Middleware identifies the caller. A valid bearer token (or a dev header when
// AUTH_DEV_BYPASS is on) puts a User in the request context; a bad token is
// rejected; no token continues unauthenticated.
func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev bypass for local testing (NEVER enable in prod)
			if m.cfg.DevBypass {
				if u := devUserFromHeaders(r); u.Username != "" {
					next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey, u)))
					return
				}
			}

			raw, ok := bearer(r)
			if !ok || !m.Enabled() {
				next.ServeHTTP(w, r)
				return
			}
			u, err := m.validateBearer(raw)
			if err != nil {
				m.log.Debug("bearer rejected", zap.Error(err), zap.String("path", r.URL.Path))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey, u)))
		})
	}
}

// Require rejects unauthenticated callers, and callers without the admin
// role, whenever a secret or the dev bypass is configured.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() && !m.cfg.DevBypass {
			next.ServeHTTP(w, r)
			return
		}
		if !m.IsAuthenticated(r.Context()) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !m.IsAdmin(r.Context()) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}
