package domain

import (
	"strings"
)

// CartItem is a transient line item. It is never persisted; the whole cart
// travels serialized inside the caller's session cookie.
type CartItem struct {
	ProductID   uint    `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"imageUrl"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
}

// Cart is an ordered list of line items keyed by (productID, size, color).
// Size and color compare case-insensitively; the empty string is a valid
// "no variant axis" key.
type Cart struct {
	Items []CartItem `json:"items"`
}

func sameLine(it CartItem, productID uint, size, color string) bool {
	return it.ProductID == productID &&
		strings.EqualFold(it.Size, size) &&
		strings.EqualFold(it.Color, color)
}

// Add merges into an existing matching line or appends a new one. Stock is
// deliberately not checked here; only checkout looks at inventory.
func (c *Cart) Add(item CartItem) {
	for i := range c.Items {
		if sameLine(c.Items[i], item.ProductID, item.Size, item.Color) {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Remove deletes every line matching the key.
func (c *Cart) Remove(productID uint, size, color string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if !sameLine(it, productID, size, color) {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

// SetQuantity overwrites a line's quantity; zero or negative removes it.
func (c *Cart) SetQuantity(productID uint, size, color string, qty int) {
	if qty <= 0 {
		c.Remove(productID, size, color)
		return
	}
	for i := range c.Items {
		if sameLine(c.Items[i], productID, size, color) {
			c.Items[i].Quantity = qty
			return
		}
	}
}

func (c *Cart) Clear() { c.Items = nil }

// Len is the number of lines, Units the total quantity across them.
func (c *Cart) Len() int { return len(c.Items) }

func (c *Cart) Units() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Total() float64 {
	t := 0.0
	for _, it := range c.Items {
		t += it.Price * float64(it.Quantity)
	}
	return t
}
