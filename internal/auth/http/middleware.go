package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/honeymart/storefront/internal/auth"
)

type ctxKey int

const sessionKey ctxKey = 0

// SessionFrom returns the session attached by RequireUser, if any.
func SessionFrom(ctx context.Context) (auth.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(auth.Session)
	return sess, ok
}

// WithSession attaches a session to the context the way RequireUser does.
func WithSession(ctx context.Context, sess auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

func tokenFrom(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get("X-Session-Token"))
}

// RequireUser rejects requests without a valid session and stashes the
// resolved session in the request context.
func RequireUser(store *auth.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := store.Resolve(tokenFrom(r))
			if !ok {
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "log in to continue")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireAdmin layers the admin role check on top of RequireUser.
func RequireAdmin(store *auth.Store) func(http.Handler) http.Handler {
	requireUser := RequireUser(store)
	return func(next http.Handler) http.Handler {
		return requireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := SessionFrom(r.Context())
			if sess.Role != auth.RoleAdmin {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
