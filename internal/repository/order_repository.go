package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scent-store/internal/document"
	"scent-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatusChanged means the order no longer has the status the update
	// expected to replace
	ErrStatusChanged = errors.New("order status changed concurrently")
)

// OrderRepository defines the interface for order document access
type OrderRepository interface {
	Create(ctx context.Context, draft *domain.OrderDraft) (string, error)
	List(ctx context.Context) ([]*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
	Delete(ctx context.Context, id string) error
}

type orderRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db, now: time.Now}
}

// Create inserts an order; the database assigns its id and creation time
func (r *orderRepository) Create(ctx context.Context, draft *domain.OrderDraft) (string, error) {
	doc, err := document.SanitizeObject(orderDocument{
		Customer: draft.Customer,
		Items:    draft.Items,
		Total:    draft.Total,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sanitize order: %w", err)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode order: %w", err)
	}

	status := draft.Status
	if status == "" {
		status = domain.OrderStatusPending
	}

	query := `
		INSERT INTO orders (data, status, created_at)
		VALUES ($1, $2, now())
		RETURNING id
	`

	var id string
	if err := r.db.QueryRowContext(ctx, query, payload, string(status)).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	return id, nil
}

// List retrieves all orders, newest first. The ordering comes from the query.
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, data, status, created_at
		FROM orders
		ORDER BY created_at DESC NULLS FIRST, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// FindByID retrieves one order
func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}

	query := `
		SELECT id, data, status, created_at
		FROM orders
		WHERE id = $1
	`

	order, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

// UpdateStatus changes only the status column of an order, and only while
// the order still has status from
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrOrderNotFound
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1 AND status = $3`,
		id, string(to), string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check order: %w", err)
	}
	if !exists {
		return ErrOrderNotFound
	}
	return ErrStatusChanged
}

// Delete removes an order permanently
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrOrderNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *orderRepository) scan(row rowScanner) (*domain.Order, error) {
	var (
		id        string
		raw       []byte
		status    string
		createdAt sql.NullTime
	)
	if err := row.Scan(&id, &raw, &status, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	var ts *time.Time
	if createdAt.Valid {
		ts = &createdAt.Time
	}

	order, err := MapOrder(id, raw, status, ts, r.now)
	if err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", id, err)
	}
	return order, nil
}
