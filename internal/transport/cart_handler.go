package transport

import (
	"errors"
	"net/http"

	"scent-store/internal/cart"
	"scent-store/internal/domain"
	"scent-store/internal/middleware"
	"scent-store/internal/pricing"
	"scent-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddItemRequest represents a request to put a product in the cart
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// SetQuantityRequest represents a request to change a cart line
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutRequest represents the checkout form
type CheckoutRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	City          string `json:"city"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

func (req CheckoutRequest) toCustomer() domain.Customer {
	method := domain.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = domain.PaymentJazzCash
	}
	return domain.Customer{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		City:          req.City,
		Address:       req.Address,
		PaymentMethod: method,
	}
}

// CartResponse represents the cart with its checkout breakdown
type CartResponse struct {
	Items         []domain.CartItem    `json:"items"`
	Count         int                  `json:"count"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	Subtotal      float64              `json:"subtotal"`
	Surcharge     float64              `json:"surcharge"`
	Total         float64              `json:"total"`
}

// CheckoutResponse represents a placed order
type CheckoutResponse struct {
	OrderID string             `json:"orderId"`
	Total   float64            `json:"total"`
	Status  domain.OrderStatus `json:"status"`
}

// CartHandler handles HTTP requests for the cart and checkout
type CartHandler struct {
	engine  *cart.Engine
	catalog service.CatalogService
	orders  service.OrderService
	logger  *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(engine *cart.Engine, catalog service.CatalogService, orders service.OrderService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		engine:  engine,
		catalog: catalog,
		orders:  orders,
		logger:  logger,
	}
}

// RegisterRoutes registers the cart routes; checkout goes through limitCheckout
func (h *CartHandler) RegisterRoutes(r chi.Router, limitCheckout func(http.Handler) http.Handler) {
	r.Get("/api/cart", h.GetCart)
	r.Post("/api/cart/items", h.AddItem)
	r.Patch("/api/cart/items/{id}", h.SetQuantity)
	r.Delete("/api/cart/items/{id}", h.RemoveItem)

	r.With(limitCheckout).Post("/api/checkout", h.Checkout)
}

// GetCart returns the cart priced for ?paymentMethod=, JazzCash by default
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	method := domain.PaymentJazzCash
	if raw := r.URL.Query().Get("paymentMethod"); raw != "" {
		parsed, err := domain.ParsePaymentMethod(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		method = parsed
	}

	h.respondCart(w, http.StatusOK, h.engine.Items(r.Context(), s), method)
}

// AddItem adds a catalog product to the cart, one unit when no quantity is given
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	var req AddItemRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	items, err := h.engine.Add(r.Context(), s, *product, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to add to cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	h.respondCart(w, http.StatusOK, items, domain.PaymentJazzCash)
}

// SetQuantity changes the quantity of a cart line
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	items := h.engine.SetQuantity(r.Context(), s, chi.URLParam(r, "id"), req.Quantity)
	h.respondCart(w, http.StatusOK, items, domain.PaymentJazzCash)
}

// RemoveItem drops a product from the cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	items := h.engine.Remove(r.Context(), s, chi.URLParam(r, "id"))
	h.respondCart(w, http.StatusOK, items, domain.PaymentJazzCash)
}

// Checkout places the cart as an order
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	s, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	var req CheckoutRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), s, req.toCustomer())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrMissingCustomerFields),
			errors.Is(err, domain.ErrInvalidPaymentMethod):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidCustomer):
			if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
				middleware.RespondWithValidationErrors(w, validationErrors)
				return
			}
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Checkout failed", zap.String("session_id", s.ID()), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		OrderID: order.OrderID,
		Total:   order.Total,
		Status:  order.Status,
	})
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int, items []domain.CartItem, method domain.PaymentMethod) {
	if items == nil {
		items = []domain.CartItem{}
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	quote := pricing.QuoteFor(items, method)
	middleware.RespondWithJSON(w, status, CartResponse{
		Items:         items,
		Count:         count,
		PaymentMethod: method,
		Subtotal:      pricing.Float(quote.Subtotal),
		Surcharge:     pricing.Float(quote.Surcharge),
		Total:         pricing.Float(quote.Total),
	})
}
