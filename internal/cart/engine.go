// Package cart implements the shopping cart on top of the session envelope.
package cart

import (
	"context"
	"errors"

	"scent-store/internal/domain"
	"scent-store/internal/pricing"
	"scent-store/internal/session"

	"go.uber.org/zap"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Recorder observes cart mutations
type Recorder interface {
	CartMutation(op string)
}

type nopRecorder struct{}

func (nopRecorder) CartMutation(string) {}

// Engine performs cart operations for one session at a time. Persist
// failures are logged by the session store; the cart returned to the caller
// reflects the attempted mutation and is not rolled back.
type Engine struct {
	logger   *zap.Logger
	recorder Recorder
}

// NewEngine creates a cart engine. A nil recorder disables metrics.
func NewEngine(logger *zap.Logger, recorder Recorder) *Engine {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Engine{logger: logger, recorder: recorder}
}

// Items returns the session's cart
func (e *Engine) Items(ctx context.Context, s *session.Session) []domain.CartItem {
	return s.Envelope(ctx).Cart
}

// Count returns the number of units in the cart
func (e *Engine) Count(ctx context.Context, s *session.Session) int {
	count := 0
	for _, item := range e.Items(ctx, s) {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the sum of price times quantity over the cart
func (e *Engine) Subtotal(ctx context.Context, s *session.Session) float64 {
	return pricing.Float(pricing.Subtotal(e.Items(ctx, s)))
}

// Add puts quantity units of product in the cart. A product already in the
// cart has its quantity increased instead of getting a second line.
func (e *Engine) Add(ctx context.Context, s *session.Session, product domain.Product, quantity int) ([]domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.UpdateCart(ctx, func(cart []domain.CartItem) ([]domain.CartItem, bool) {
		for i := range cart {
			if cart[i].ID == product.ID {
				cart[i].Quantity += quantity
				return cart, true
			}
		}
		return append(cart, domain.CartItem{Product: product, Quantity: quantity}), true
	})
	e.done("add", s, err)
	return cart, nil
}

// Remove drops a product from the cart. Removing an absent product is not an error.
func (e *Engine) Remove(ctx context.Context, s *session.Session, productID string) []domain.CartItem {
	cart, err := s.UpdateCart(ctx, func(cart []domain.CartItem) ([]domain.CartItem, bool) {
		kept := make([]domain.CartItem, 0, len(cart))
		for _, item := range cart {
			if item.ID != productID {
				kept = append(kept, item)
			}
		}
		return kept, true
	})
	e.done("remove", s, err)
	return cart
}

// SetQuantity changes a line's quantity, clamped to at least one. It never
// removes the line and does nothing when the product is not in the cart.
func (e *Engine) SetQuantity(ctx context.Context, s *session.Session, productID string, quantity int) []domain.CartItem {
	if quantity < 1 {
		quantity = 1
	}

	cart, err := s.UpdateCart(ctx, func(cart []domain.CartItem) ([]domain.CartItem, bool) {
		for i := range cart {
			if cart[i].ID == productID {
				cart[i].Quantity = quantity
				return cart, true
			}
		}
		return cart, false
	})
	e.done("set_quantity", s, err)
	return cart
}

// Clear empties the cart
func (e *Engine) Clear(ctx context.Context, s *session.Session) {
	_, err := s.UpdateCart(ctx, func([]domain.CartItem) ([]domain.CartItem, bool) {
		return []domain.CartItem{}, true
	})
	e.done("clear", s, err)
}

// Checkout hands a snapshot of the cart to place while holding the session
// lock. The cart is emptied only when place succeeds.
func (e *Engine) Checkout(ctx context.Context, s *session.Session, place func(items []domain.CartItem) error) error {
	var placeErr error
	_, err := s.UpdateCart(ctx, func(cart []domain.CartItem) ([]domain.CartItem, bool) {
		if placeErr = place(cart); placeErr != nil {
			return cart, false
		}
		return []domain.CartItem{}, true
	})
	if placeErr != nil {
		return placeErr
	}
	e.done("clear", s, err)
	return nil
}

func (e *Engine) done(op string, s *session.Session, err error) {
	e.recorder.CartMutation(op)
	if err != nil {
		// The store already logged the failure; note that the caller sees an unsaved cart
		e.logger.Warn("Cart change not persisted",
			zap.String("op", op),
			zap.String("session_id", s.ID()),
		)
	}
}
