// Package pricing computes cart and order amounts in exact decimal arithmetic.
package pricing

import (
	"scent-store/internal/domain"

	"github.com/shopspring/decimal"
)

// CashOnDeliverySurcharge is the handling fee added to cash-on-delivery orders
var CashOnDeliverySurcharge = decimal.NewFromInt(300)

// Quote is the breakdown shown at checkout
type Quote struct {
	Subtotal  decimal.Decimal
	Surcharge decimal.Decimal
	Total     decimal.Decimal
}

// Subtotal sums price times quantity over items
func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// Surcharge returns the fee for a payment method
func Surcharge(method domain.PaymentMethod) decimal.Decimal {
	if method == domain.PaymentCashOnDelivery {
		return CashOnDeliverySurcharge
	}
	return decimal.Zero
}

// QuoteFor prices items for the given payment method
func QuoteFor(items []domain.CartItem, method domain.PaymentMethod) Quote {
	subtotal := Subtotal(items)
	surcharge := Surcharge(method)
	return Quote{
		Subtotal:  subtotal,
		Surcharge: surcharge,
		Total:     subtotal.Add(surcharge),
	}
}

// Float returns d as float64 for storage in JSON documents
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// Revenue sums the totals of orders
func Revenue(orders []domain.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, order := range orders {
		sum = sum.Add(decimal.NewFromFloat(order.Total))
	}
	return sum
}
