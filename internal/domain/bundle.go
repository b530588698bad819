package domain

// BundleType is the size of a promotional grouping
type BundleType string

const (
	BundleDuo  BundleType = "duo"
	BundleTrio BundleType = "trio"
	BundleSet  BundleType = "set"
)

// Bundle is a promotional grouping of products sold at a combined price
type Bundle struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	ProductIDs    []string   `json:"productIds"`
	BundlePrice   float64    `json:"bundlePrice"`
	OriginalPrice float64    `json:"originalPrice"`
	DiscountText  string     `json:"discountText"`
	Type          BundleType `json:"type"`
	Badge         string     `json:"badge,omitempty"`
	Description   string     `json:"description,omitempty"`
}

// Savings returns how much the bundle saves over buying items separately
func (b Bundle) Savings() float64 {
	if b.OriginalPrice <= b.BundlePrice {
		return 0
	}
	return b.OriginalPrice - b.BundlePrice
}
