package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func product(id, price string) Product {
	return Product{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price)}
}

func TestCart_AddMergesAndKeepsOrder(t *testing.T) {
	cart := NewCart()
	cart.Add(product("p2", "10.00"), 1)
	cart.Add(product("p1", "45.90"), 1)
	cart.Add(product("p2", "10.00"), 2)

	lines := cart.Lines()
	assert.Len(t, lines, 2)
	assert.Equal(t, "p2", lines[0].Product.ID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "p1", lines[1].Product.ID)
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("75.90")))
}

func TestCart_SetQuantityAndRemove(t *testing.T) {
	cart := NewCart()
	cart.Add(product("p1", "45.90"), 1)
	cart.Add(product("p2", "10.00"), 1)
	cart.Add(product("p3", "5.00"), 0)

	cart.SetQuantity("p1", 2)
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("101.80")))

	cart.SetQuantity("p2", 0)
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, "p1", cart.Lines()[0].Product.ID)

	cart.Remove("missing")
	cart.Remove("p1")
	assert.True(t, cart.IsEmpty())
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart()
	cart.Add(product("p1", "45.90"), 2)
	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
	cart.Add(product("p1", "45.90"), 1)
	assert.Equal(t, 1, cart.Len())
}

func TestParsePaymentStatus(t *testing.T) {
	status, ok := ParsePaymentStatus("refunded")
	assert.True(t, ok)
	assert.Equal(t, PaymentRefunded, status)

	_, ok = ParsePaymentStatus("succeeded")
	assert.False(t, ok)
}
