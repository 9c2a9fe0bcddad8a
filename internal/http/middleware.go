package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hondana/internal/core"
)

// withAuth resolves the bearer token to a user id and stores it in the
// request context. Every failure mode produces the same 401 body so a
// caller cannot distinguish a missing header from a bad token.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, r, core.ErrUnauthorized)
			return
		}

		userID, err := s.verifier.ResolveUser(r.Context(), token)
		if err != nil {
			slog.WarnContext(r.Context(), "Token verification failed",
				"error", err,
				"url", r.URL.Path)
			writeError(w, r, core.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}

// userIDFromContext returns the authenticated user id set by withAuth.
func userIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
