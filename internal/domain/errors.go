package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrVariantExists      = errors.New("variant with this size and color already exists")
)

// InsufficientStockError aborts a checkout as a whole; no partial order
// survives it.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

// UnresolvedVariantError is returned in strict checkout mode when a cart
// line cannot be matched to any variant of its product.
type UnresolvedVariantError struct {
	ProductID   uint
	ProductName string
	Size        string
	Color       string
}

func (e *UnresolvedVariantError) Error() string {
	return fmt.Sprintf("no variant of %s matches size %q color %q",
		e.ProductName, e.Size, e.Color)
}
