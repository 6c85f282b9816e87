package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
)

// middleware is a lightweight wrapper type for composing handlers.
type middleware func(http.Handler) http.Handler

type ctxKey string

const userIDKey ctxKey = "user_id"

func withUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// currentUserID extracts the authenticated user's id from the context.
// Handlers behind requireSession call this.
func currentUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// requireSession resolves the session cookie to a user id and injects it
// into the request context. A missing cookie is a 400 (the client never
// attempted to authenticate); an invalid or expired token is a 401 and the
// stale cookie is cleared so the browser stops replaying it. Storage
// failures are a 500, never a 401.
func (s *Server) requireSession() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(sessionCookieName)
			if err != nil || c.Value == "" {
				writeError(w, http.StatusBadRequest, "missing session cookie")
				return
			}

			userID, err := s.sessions.Validate(r.Context(), c.Value)
			if err != nil {
				s.failSession(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
		})
	}
}

// requireAPIKey gates the cache endpoints on the x-api-key header.
func (s *Server) requireAPIKey() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("x-api-key")
			if s.cfg.CacheAPIKey == "" ||
				subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.CacheAPIKey)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
