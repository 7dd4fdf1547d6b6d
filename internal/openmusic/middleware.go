package openmusic

import (
	"context"
	"net/http"
	"strings"
)

type ctxUserKey struct{}

// authRequired validates the bearer access token and stores the
// authenticated username in the request context.
func (s *Server) authRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "invalid Authorization header")
			return
		}

		claims, err := s.parseToken(parts[1], tokenTypeAccess)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserKey{}, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) string {
	if v, ok := r.Context().Value(ctxUserKey{}).(string); ok {
		return v
	}
	return ""
}
