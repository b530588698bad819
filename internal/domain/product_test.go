package domain

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestNewProductID(t *testing.T) {
	cases := map[string]string{
		"Starborn":           "starborn",
		"Cool Current":       "cool-current",
		"  Tobacco   Trail ": "tobacco-trail",
		"Oud\tNoir":          "oud-noir",
		"":                   "",
	}
	for name, want := range cases {
		assert.Equal(t, want, NewProductID(name), name)
	}
}

// Property: slugs are lower case and contain no whitespace
func TestProperty_ProductIDsAreSlugs(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("slug has no whitespace or upper case", prop.ForAll(
		func(name string) bool {
			id := NewProductID(name)
			return id == strings.ToLower(id) && !strings.ContainsAny(id, " \t\n")
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProduct_IsLowStock(t *testing.T) {
	for stock, want := range map[int]bool{0: false, 1: true, 4: true, 5: false, 50: false} {
		p := Product{Stock: stock}
		assert.Equal(t, want, p.IsLowStock(), "stock %d", stock)
	}
}

func TestCartItem_LineTotal(t *testing.T) {
	item := CartItem{Product: Product{Price: 2250}, Quantity: 3}
	assert.Equal(t, 6750.0, item.LineTotal())
}

func TestBundle_Savings(t *testing.T) {
	assert.Equal(t, 500.0, Bundle{BundlePrice: 4000, OriginalPrice: 4500}.Savings())
	assert.Equal(t, 0.0, Bundle{BundlePrice: 4000, OriginalPrice: 3500}.Savings())
}
