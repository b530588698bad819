package domain

// CartItem is a product snapshot taken when it was added to the cart
type CartItem struct {
	Product
	Quantity int  `json:"quantity"`
	IsBundle bool `json:"isBundle,omitempty"`
}

// LineTotal returns price times quantity for the item
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
