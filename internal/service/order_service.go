package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scent-store/internal/cart"
	"scent-store/internal/domain"
	"scent-store/internal/pricing"
	"scent-store/internal/repository"
	"scent-store/internal/session"

	"go.uber.org/zap"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrMissingCustomerFields = errors.New("name, phone and address are required")
	ErrInvalidCustomer       = errors.New("invalid customer details")
)

// OrderService defines the interface for the checkout pipeline and the
// order ledger
type OrderService interface {
	Quote(ctx context.Context, s *session.Session, method domain.PaymentMethod) pricing.Quote
	PlaceOrder(ctx context.Context, s *session.Session, customer domain.Customer) (*domain.Order, error)
	ListOrders(ctx context.Context) []*domain.Order
	UpdateOrderStatus(ctx context.Context, id string, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type orderService struct {
	orders   repository.OrderRepository
	cart     *cart.Engine
	recorder Recorder
	logger   *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orders repository.OrderRepository, engine *cart.Engine, recorder Recorder, logger *zap.Logger) OrderService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &orderService{
		orders:   orders,
		cart:     engine,
		recorder: recorder,
		logger:   logger,
	}
}

// Quote prices the session's cart for a payment method
func (s *orderService) Quote(ctx context.Context, sess *session.Session, method domain.PaymentMethod) pricing.Quote {
	return pricing.QuoteFor(s.cart.Items(ctx, sess), method)
}

// PlaceOrder records the session's cart as a Pending order and empties the
// cart. Nothing is written when validation fails or the cart is empty.
func (s *orderService) PlaceOrder(ctx context.Context, sess *session.Session, customer domain.Customer) (*domain.Order, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	var order *domain.Order
	err := s.cart.Checkout(ctx, sess, func(items []domain.CartItem) error {
		if len(items) == 0 {
			return ErrEmptyCart
		}

		quote := pricing.QuoteFor(items, customer.PaymentMethod)
		draft := &domain.OrderDraft{
			Customer: customer,
			Items:    items,
			Total:    pricing.Float(quote.Total),
			Status:   domain.OrderStatusPending,
		}

		id, err := s.orders.Create(ctx, draft)
		if err != nil {
			s.recorder.GatewayError("add_order")
			return fmt.Errorf("failed to place order: %w", err)
		}

		order = &domain.Order{
			OrderID:  id,
			Customer: draft.Customer,
			Items:    draft.Items,
			Total:    draft.Total,
			Status:   draft.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.OrderPlaced(customer.PaymentMethod, order.Total)
	s.logger.Info("Order placed",
		zap.String("order_id", order.OrderID),
		zap.String("session_id", sess.ID()),
		zap.String("payment_method", string(customer.PaymentMethod)),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

// ListOrders returns the ledger newest first; a gateway error reads as empty
func (s *orderService) ListOrders(ctx context.Context) []*domain.Order {
	orders, err := s.orders.List(ctx)
	if err != nil {
		s.recorder.GatewayError("list_orders")
		s.logger.Error("Failed to list orders", zap.Error(err))
		return []*domain.Order{}
	}
	return orders
}

// UpdateOrderStatus moves an order along its lifecycle. Setting the current
// status again changes nothing.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id string, raw string) (*domain.Order, error) {
	status, err := domain.ParseOrderStatus(raw)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
		s.recorder.GatewayError("update_order_status")
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if order.Status == status {
		return order, nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidStatusTransition, order.Status, status)
	}

	if err := s.orders.UpdateStatus(ctx, id, order.Status, status); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return nil, err
		case errors.Is(err, repository.ErrStatusChanged):
			return s.resolveStatusRace(ctx, id, status)
		}
		s.recorder.GatewayError("update_order_status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", id),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)),
	)
	order.Status = status
	return order, nil
}

// resolveStatusRace handles an update that lost to a concurrent one. The
// order is now terminal, so only a request for the status it already has
// succeeds.
func (s *orderService) resolveStatusRace(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	current, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
		s.recorder.GatewayError("update_order_status")
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if current.Status == status {
		return current, nil
	}
	s.logger.Debug("Order status changed concurrently",
		zap.String("order_id", id),
		zap.String("current", string(current.Status)),
		zap.String("requested", string(status)),
	)
	return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidStatusTransition, current.Status, status)
}

// DeleteOrder removes an order permanently
func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return err
		}
		s.recorder.GatewayError("delete_order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info("Order deleted", zap.String("order_id", id))
	return nil
}

func validateCustomer(customer domain.Customer) error {
	if strings.TrimSpace(customer.Name) == "" ||
		strings.TrimSpace(customer.Phone) == "" ||
		strings.TrimSpace(customer.Address) == "" {
		return ErrMissingCustomerFields
	}
	if _, err := domain.ParsePaymentMethod(string(customer.PaymentMethod)); err != nil {
		return err
	}
	if err := validate.Struct(customer); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCustomer, err)
	}
	return nil
}
