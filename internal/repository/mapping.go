package repository

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"scent-store/internal/document"
	"scent-store/internal/domain"
)

// Defaults applied when a stored document carries a missing or unusable number
const (
	DefaultPrice = 2250
	DefaultStock = 0
)

// MapProduct builds a Product from a stored document. This is the only place
// document fields are coerced:
//   - price: numeric or numeric string; missing, malformed or zero reads as DefaultPrice
//   - stock: numeric or numeric string truncated to an integer; missing,
//     malformed or negative reads as DefaultStock
//   - specifications: dropped when they do not decode
func MapProduct(id string, doc map[string]any) *domain.Product {
	product := &domain.Product{
		ID:          id,
		Name:        stringField(doc, "name"),
		Description: stringField(doc, "description"),
		Category:    stringField(doc, "category"),
		ImageURL:    stringField(doc, "imageUrl"),
		Badge:       domain.Badge(stringField(doc, "badge")),
		Price:       DefaultPrice,
		Stock:       DefaultStock,
	}

	if price, ok := number(doc["price"]); ok && price != 0 {
		product.Price = price
	}
	// Negative and fractional stock are clamped on purpose; stock is a count
	if stock, ok := number(doc["stock"]); ok && stock > 0 {
		product.Stock = int(math.Trunc(stock))
	}

	if raw, ok := doc["specifications"]; ok && raw != nil {
		if encoded, err := json.Marshal(raw); err == nil {
			var specs domain.Specifications
			if err := json.Unmarshal(encoded, &specs); err == nil {
				product.Specifications = &specs
			}
		}
	}

	return product
}

// ProductDocument converts a product into the stored document: the product
// minus its id, sanitized to plain JSON.
func ProductDocument(product *domain.Product) (map[string]any, error) {
	doc, err := document.SanitizeObject(product)
	if err != nil {
		return nil, err
	}
	delete(doc, "id")
	return doc, nil
}

// orderDocument is the stored body of an order; id, status and creation time
// live in their own columns
type orderDocument struct {
	Customer domain.Customer   `json:"customer"`
	Items    []domain.CartItem `json:"items"`
	Total    float64           `json:"total"`
}

// MapOrder builds an Order from its stored parts
func MapOrder(id string, raw []byte, status string, createdAt *time.Time, now func() time.Time) (*domain.Order, error) {
	var doc orderDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Items == nil {
		doc.Items = []domain.CartItem{}
	}

	return &domain.Order{
		OrderID:  id,
		Customer: doc.Customer,
		Items:    doc.Items,
		Total:    doc.Total,
		Status:   domain.OrderStatus(status),
		Date:     domain.FormatOrderDate(createdAt, now),
	}, nil
}

func stringField(doc map[string]any, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
