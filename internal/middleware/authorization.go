package middleware

import (
	"context"
	"net/http"

	"scent-store/internal/session"

	"go.uber.org/zap"
)

// AdminChecker reports whether a session holds the back-office flag
type AdminChecker interface {
	IsAuthorized(ctx context.Context, s *session.Session) bool
}

// RequireAdmin middleware ensures the session is logged in to the back office
func RequireAdmin(admin AdminChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := GetSession(r.Context())
			if !ok {
				logger.Warn("Session not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if !admin.IsAuthorized(r.Context(), s) {
				logger.Warn("Non-admin session attempted to access admin endpoint",
					zap.String("session_id", s.ID()),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
