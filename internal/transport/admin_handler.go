package transport

import (
	"errors"
	"net/http"

	"scent-store/internal/middleware"
	"scent-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the back-office login payload
type LoginRequest struct {
	Key string `json:"key" validate:"required"`
}

// AdminStatusResponse reports the back-office gate. The key itself is never returned.
type AdminStatusResponse struct {
	LoggedIn bool `json:"loggedIn"`
}

// AdminHandler handles HTTP requests for the back-office gate and dashboard
type AdminHandler struct {
	admin     service.AdminService
	dashboard service.DashboardService
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin service.AdminService, dashboard service.DashboardService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:     admin,
		dashboard: dashboard,
		logger:    logger,
	}
}

// RegisterRoutes registers the admin gate routes
func (h *AdminHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Post("/api/admin/login", h.Login)
	r.Post("/api/admin/logout", h.Logout)
	r.Get("/api/admin/status", h.Status)

	r.With(requireAdmin).Get("/api/admin/dashboard", h.Dashboard)
}

// Login unlocks the back office for the session
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	s, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	var req LoginRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	if err := h.admin.Login(r.Context(), s, req.Key); err != nil {
		if errors.Is(err, service.ErrInvalidAdminKey) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid admin key")
			return
		}
		h.logger.Error("Admin login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "login failed")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, AdminStatusResponse{LoggedIn: true})
}

// Logout locks the back office again
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.admin.Logout(r.Context(), s); err != nil {
		h.logger.Warn("Admin logout not persisted", zap.String("session_id", s.ID()), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status reports whether the session is logged in
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	s, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, AdminStatusResponse{LoggedIn: h.admin.IsAuthorized(r.Context(), s)})
}

// Dashboard returns the back-office statistics
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.dashboard.Stats(r.Context()))
}
