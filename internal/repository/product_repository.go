package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"scent-store/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product document access
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, product *domain.Product) error
	UpsertBatch(ctx context.Context, products []*domain.Product) error
	Patch(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const upsertProductQuery = `
	INSERT INTO products (id, data)
	VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data
`

// List retrieves every product document, oldest first
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, data
		FROM products
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, MapProduct(id, decodeDocument(raw)))
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a product document by its slug
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT data FROM products WHERE id = $1`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return MapProduct(id, decodeDocument(raw)), nil
}

// Count returns the number of product documents
func (r *productRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// Upsert creates the product document or overwrites the one with the same id
func (r *productRepository) Upsert(ctx context.Context, product *domain.Product) error {
	payload, err := encodeProduct(product)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, upsertProductQuery, product.ID, payload); err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	return nil
}

// UpsertBatch writes all products in one transaction
func (r *productRepository) UpsertBatch(ctx context.Context, products []*domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertProductQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, product := range products {
		payload, err := encodeProduct(product)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, product.ID, payload); err != nil {
			return fmt.Errorf("failed to write product %s: %w", product.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	return nil
}

// Patch merges fields into an existing product document
func (r *productRepository) Patch(ctx context.Context, id string, fields map[string]any) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode product patch: %w", err)
	}

	query := `
		UPDATE products
		SET data = data || $2::jsonb
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, payload)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product document
func (r *productRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func encodeProduct(product *domain.Product) ([]byte, error) {
	doc, err := ProductDocument(product)
	if err != nil {
		return nil, fmt.Errorf("failed to sanitize product %s: %w", product.ID, err)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product %s: %w", product.ID, err)
	}
	return payload, nil
}

// decodeDocument returns an empty document for anything that is not a JSON
// object so the mapping defaults apply
func decodeDocument(raw []byte) map[string]any {
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return map[string]any{}
	}
	return doc
}
