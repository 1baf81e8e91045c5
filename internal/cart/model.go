package cart

import (
	"github.com/shopspring/decimal"

	"github.com/artisanmarket/storefront/internal/catalog"
)

// LineItem pairs a product snapshot with a quantity. The snapshot is an
// independent copy taken at add time; later catalog edits do not reach
// into carts.
type LineItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart is an ordered sequence of line items, at most one per product
// id, insertion order preserved.
type Cart struct {
	Items []LineItem `json:"items"`
}

// ItemCount is the sum of line-item quantities, recomputed per call.
func (c *Cart) ItemCount() int {
	count := 0
	for _, it := range c.Items {
		count += it.Quantity
	}
	return count
}

// Subtotal is the sum of price times quantity, recomputed per call.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range c.Items {
		subtotal = subtotal.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return subtotal
}

func (c *Cart) findItem(productID string) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) clone() Cart {
	cp := Cart{Items: make([]LineItem, len(c.Items))}
	copy(cp.Items, c.Items)
	return cp
}
