package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdomain "github.com/himapp/pos/internal/product/domain"
)

func widget() productdomain.Product {
	return productdomain.Product{ID: "1", Name: "Widget", SKU: "W1", Price: 10, Stock: 5}
}

func gadget() productdomain.Product {
	return productdomain.Product{ID: "2", Name: "Gadget", SKU: "G1", Price: 24.5, Stock: 2}
}

func TestCart_AddItemIncrementsExisting(t *testing.T) {
	cart := NewCart()

	cart.AddItem(widget())
	cart.AddItem(widget())

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCart_AddItemIgnoresStock(t *testing.T) {
	cart := NewCart()
	empty := widget()
	empty.Stock = 0

	// The cart layer takes anything; checkout validates against live stock.
	cart.AddItem(empty)
	assert.Len(t, cart.Items(), 1)
}

func TestCart_UpdateQuantity(t *testing.T) {
	cart := NewCart()
	cart.AddItem(widget())

	assert.True(t, cart.UpdateQuantity("1", 4))
	assert.Equal(t, 4, cart.Items()[0].Quantity)

	assert.False(t, cart.UpdateQuantity("missing", 1))
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart()
	cart.AddItem(widget())
	cart.AddItem(gadget())

	cart.RemoveItem("1")

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].Product.ID)

	cart.RemoveItem("2")
	assert.True(t, cart.Empty())
}

func TestCart_Total(t *testing.T) {
	cart := NewCart()
	cart.AddItem(widget())
	cart.AddItem(widget())
	cart.AddItem(gadget())

	// 2×10 + 1×24.5
	assert.True(t, cart.Total().Equal(decimal.NewFromFloat(44.5)),
		"got %s", cart.Total())
}

func TestCart_TotalEUR(t *testing.T) {
	cart := NewCart()
	p := widget()
	p.Price = 74.5
	cart.AddItem(p)

	// 74.50 DKK / 7.45 = 10.00 EUR
	assert.Equal(t, "10.00", cart.TotalEUR().StringFixed(2))
}

func TestCart_EmptyTotalIsZero(t *testing.T) {
	cart := NewCart()
	assert.True(t, cart.Total().IsZero())
	assert.True(t, cart.TotalEUR().IsZero())
}
