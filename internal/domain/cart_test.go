package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strideshop/stride/internal/domain"
)

func TestCartAddMergesSameLine(t *testing.T) {
	cart := &domain.Cart{}
	cart.Add(domain.CartItem{ProductID: 1, ProductName: "Air Max 270", Price: 50, Quantity: 2, Size: "M", Color: "Red"})
	cart.Add(domain.CartItem{ProductID: 1, ProductName: "Air Max 270", Price: 50, Quantity: 3, Size: "m", Color: "RED"})

	assert.Equal(t, 1, cart.Len(), "case-insensitive size/color should merge into one line")
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.Units())
	assert.InDelta(t, 250.0, cart.Total(), 0.001)
}

func TestCartAddDifferentVariantsStaySeparate(t *testing.T) {
	cart := &domain.Cart{}
	cart.Add(domain.CartItem{ProductID: 1, Quantity: 1, Size: "M", Color: "Red"})
	cart.Add(domain.CartItem{ProductID: 1, Quantity: 1, Size: "L", Color: "Red"})
	cart.Add(domain.CartItem{ProductID: 2, Quantity: 1, Size: "M", Color: "Red"})

	assert.Equal(t, 3, cart.Len())
}

func TestCartEmptyStringIsAValidKey(t *testing.T) {
	cart := &domain.Cart{}
	cart.Add(domain.CartItem{ProductID: 7, Quantity: 1})
	cart.Add(domain.CartItem{ProductID: 7, Quantity: 2, Size: "", Color: ""})

	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartRemove(t *testing.T) {
	cart := &domain.Cart{}
	cart.Add(domain.CartItem{ProductID: 1, Quantity: 1, Size: "M", Color: "Red"})
	cart.Add(domain.CartItem{ProductID: 2, Quantity: 1, Size: "M", Color: "Red"})

	cart.Remove(1, "m", "red")
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, uint(2), cart.Items[0].ProductID)
}

func TestCartSetQuantity(t *testing.T) {
	cart := &domain.Cart{}
	cart.Add(domain.CartItem{ProductID: 1, Quantity: 2, Size: "M", Color: "Red"})

	cart.SetQuantity(1, "M", "Red", 7)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	cart.SetQuantity(1, "M", "Red", 0)
	assert.Equal(t, 0, cart.Len(), "zero quantity removes the line")
}

func TestCartClear(t *testing.T) {
	cart := &domain.Cart{}
	cart.Add(domain.CartItem{ProductID: 1, Quantity: 2})
	cart.Clear()

	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, 0, cart.Units())
}
