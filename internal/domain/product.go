package domain

import (
	"regexp"
	"strings"
)

// Badge is the merchandising label shown on a product card
type Badge string

const (
	BadgeOffer          Badge = "Offer"
	BadgeBestseller     Badge = "Bestseller"
	BadgeLimitedEdition Badge = "Limited Edition"
	BadgeNewArrival     Badge = "New Arrival"
	BadgeLowStock       Badge = "Low Stock"
	BadgeNone           Badge = "None"
)

// Sillage values accepted by the specs editor
const (
	SillageLight    = "Light"
	SillageModerate = "Moderate"
	SillageStrong   = "Strong"
)

// CategoryAll is the storefront filter value that matches every product
const CategoryAll = "All"

// Categories lists the storefront categories in display order
var Categories = []string{"Bold", "Fresh", "Warm", "Woody", "Floral"}

// Product represents a perfume in the catalog. The id is a stable slug and
// doubles as the document key.
type Product struct {
	ID             string          `json:"id" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Price          float64         `json:"price" validate:"gte=0"`
	Stock          int             `json:"stock" validate:"gte=0"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	Badge          Badge           `json:"badge,omitempty" validate:"omitempty,oneof=Offer Bestseller 'Limited Edition' 'New Arrival' 'Low Stock' None"`
	Specifications *Specifications `json:"specifications,omitempty"`
}

// Specifications describes a fragrance's scent profile
type Specifications struct {
	TopNotes    []string `json:"topNotes"`
	MiddleNotes []string `json:"middleNotes"`
	BaseNotes   []string `json:"baseNotes"`
	Longevity   int      `json:"longevity" validate:"gte=0,lte=100"`
	Sillage     string   `json:"sillage" validate:"oneof=Light Moderate Strong"`
	Occasions   []string `json:"occasions"`
	Season      string   `json:"season,omitempty"`
	BestTime    string   `json:"bestTime,omitempty"`
}

// IsLowStock reports whether the product is in stock but running out
func (p *Product) IsLowStock() bool {
	return p.Stock > 0 && p.Stock < 5
}

var whitespace = regexp.MustCompile(`\s+`)

// NewProductID derives the catalog slug for a product name
func NewProductID(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}
