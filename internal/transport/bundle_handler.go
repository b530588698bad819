package transport

import (
	"net/http"

	"scent-store/internal/middleware"
	"scent-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BundleHandler handles HTTP requests for promotional bundles
type BundleHandler struct {
	bundles service.BundleService
	logger  *zap.Logger
}

// NewBundleHandler creates a new BundleHandler
func NewBundleHandler(bundles service.BundleService, logger *zap.Logger) *BundleHandler {
	return &BundleHandler{
		bundles: bundles,
		logger:  logger,
	}
}

// RegisterRoutes registers the bundle routes
func (h *BundleHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/api/bundles", h.ListBundles)
	r.Get("/api/bundles/{id}", h.GetBundle)
	r.With(requireAdmin).Delete("/api/admin/bundles/{id}", h.DeleteBundle)
}

func (h *BundleHandler) ListBundles(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.bundles.ListBundles())
}

func (h *BundleHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.bundles.GetBundle(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "bundle not found")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, bundle)
}

func (h *BundleHandler) DeleteBundle(w http.ResponseWriter, r *http.Request) {
	if err := h.bundles.DeleteBundle(chi.URLParam(r, "id")); err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "bundle not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
