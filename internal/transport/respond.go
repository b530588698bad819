package transport

import (
	"net/http"

	"scent-store/internal/middleware"
	"scent-store/internal/session"

	"go.uber.org/zap"
)

// requestSession returns the session attached by the session middleware,
// answering 500 when it is missing
func requestSession(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (*session.Session, bool) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		logger.Error("Session missing from request context", zap.String("path", r.URL.Path))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
	return s, ok
}

// decodeRequest decodes and validates a JSON body, answering 400 on failure
func decodeRequest(w http.ResponseWriter, r *http.Request, v any, logger *zap.Logger) bool {
	err := middleware.DecodeAndValidate(r, v)
	if err == nil {
		return true
	}

	logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return false
	}

	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
	return false
}
