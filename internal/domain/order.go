package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("order status transition not allowed")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// PaymentMethod is how the customer settles the order
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentJazzCash       PaymentMethod = "JazzCash"
)

// ParseOrderStatus validates a status coming from the outside
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch status := OrderStatus(raw); status {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// IsTerminal reports whether no further transition is allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Pending moves to Completed or Cancelled; both are terminal. Setting the
// current status again is a no-op and always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	return s == OrderStatusPending && next.IsTerminal()
}

// ParsePaymentMethod validates a payment method coming from the outside
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch method := PaymentMethod(raw); method {
	case PaymentCashOnDelivery, PaymentJazzCash:
		return method, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// Customer is the delivery and contact block captured at checkout
type Customer struct {
	Name          string        `json:"name" validate:"required"`
	Phone         string        `json:"phone" validate:"required"`
	Email         string        `json:"email,omitempty" validate:"omitempty,email"`
	City          string        `json:"city,omitempty"`
	Address       string        `json:"address" validate:"required"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof='Cash on Delivery' JazzCash"`
}

// OrderDraft is an order before the database assigns its id and timestamp
type OrderDraft struct {
	Customer Customer    `json:"customer"`
	Items    []CartItem  `json:"items"`
	Total    float64     `json:"total"`
	Status   OrderStatus `json:"status"`
}

// Order is a persisted transaction record. Only Status changes after creation.
type Order struct {
	OrderID  string      `json:"orderId"`
	Customer Customer    `json:"customer"`
	Items    []CartItem  `json:"items"`
	Total    float64     `json:"total"`
	Status   OrderStatus `json:"status"`
	Date     string      `json:"date"`
}

// FormatOrderDate renders a server timestamp for the order ledger. A missing
// timestamp means the write is still settling and "now" stands in for it.
func FormatOrderDate(createdAt *time.Time, now func() time.Time) string {
	if createdAt == nil || createdAt.IsZero() {
		return now().UTC().Format(time.RFC3339Nano)
	}
	return createdAt.UTC().Format(time.RFC3339Nano)
}
