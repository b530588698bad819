package transport

import (
	"errors"
	"net/http"

	"scent-store/internal/domain"
	"scent-store/internal/middleware"
	"scent-store/internal/repository"
	"scent-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UpdateStatusRequest represents an order status change
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for the order ledger
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes registers the back-office order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/api/admin/orders", h.ListOrders)
		r.Patch("/api/admin/orders/{id}/status", h.UpdateStatus)
		r.Delete("/api/admin/orders/{id}", h.DeleteOrder)
	})
}

// ListOrders returns every order, newest first
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.orders.ListOrders(r.Context()))
}

// UpdateStatus moves an order to a new status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInvalidStatusTransition):
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to update order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// DeleteOrder removes an order
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to delete order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
