package domain

import (
	"github.com/shopspring/decimal"

	productdomain "github.com/himapp/pos/internal/product/domain"
)

// EURConversionRate is the fixed DKK→EUR divisor used for the secondary
// total. It is a constant, not a looked-up rate.
var EURConversionRate = decimal.NewFromFloat(7.45)

// CartItem pairs a product snapshot with a positive quantity
type CartItem struct {
	Product  productdomain.Product `json:"product"`
	Quantity int                   `json:"quantity"`
}

// Cart is the transient sale state, keyed by product id and ordered by
// insertion. It is discarded on checkout; nothing here touches storage.
type Cart struct {
	items []CartItem
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{}
}

// AddItem increments the quantity if the product is already in the cart,
// otherwise inserts it with quantity 1. Stock is not checked at this layer;
// checkout validates against live stock.
func (c *Cart) AddItem(product productdomain.Product) {
	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, CartItem{Product: product, Quantity: 1})
}

// UpdateQuantity sets the quantity for a product already in the cart
func (c *Cart) UpdateQuantity(productID string, quantity int) bool {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveItem drops the entry entirely
func (c *Cart) RemoveItem(productID string) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// Items returns the cart entries in insertion order
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Empty reports whether the cart has no entries
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Total sums price×quantity across all entries, in DKK
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		price := decimal.NewFromFloat(item.Product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TotalEUR is the DKK total divided by the fixed conversion rate, rounded to
// cents for display
func (c *Cart) TotalEUR() decimal.Decimal {
	return c.Total().Div(EURConversionRate).Round(2)
}
