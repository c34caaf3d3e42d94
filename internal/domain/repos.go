package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uint) error
	ListCustomers(ctx context.Context) ([]User, error)
	CountCustomers(ctx context.Context) (int64, error)
}

type ProductRepo interface {
	List(ctx context.Context, f ProductFilter) ([]Product, error)
	FindByID(ctx context.Context, id uint) (*Product, error)
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uint) error
	Brands(ctx context.Context) ([]Brand, error)
	Categories(ctx context.Context) ([]Category, error)

	VariantsInStock(ctx context.Context, productID uint) ([]ProductVariant, error)
	ListInventory(ctx context.Context) ([]ProductVariant, error)
	FindVariant(ctx context.Context, productID uint, size, color string) (*ProductVariant, error)
	FindVariantByID(ctx context.Context, id uint) (*ProductVariant, error)
	SaveVariant(ctx context.Context, v *ProductVariant) error
	DeleteVariant(ctx context.Context, id uint) error

	// ResolveVariant finds the variant a cart line refers to: exact
	// case-insensitive (size, color) match first, then any variant of the
	// product. ErrNotFound when the product has no variants at all.
	ResolveVariant(tx *gorm.DB, productID uint, size, color string) (*ProductVariant, error)
	// DecrementStock subtracts qty in a single conditional update; ok is
	// false when the guard stock_quantity >= qty did not hold.
	DecrementStock(tx *gorm.DB, variantID uint, qty int) (ok bool, err error)
}

type OrderRepo interface {
	Create(tx *gorm.DB, o *Order) error
	AddDetail(tx *gorm.DB, d *OrderDetail) error
	CountDetails(ctx context.Context, orderID uint) (int64, error)
	FindByToken(ctx context.Context, token string) (*Order, error)
	Save(ctx context.Context, o *Order) error
	ListByUser(ctx context.Context, userID uint) ([]Order, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]Order, error)
	Count(ctx context.Context) (int64, error)
	SumTotal(ctx context.Context) (float64, error)
}

// PaymentStateStore is the process-wide token -> paid flag association.
// Implementations must be safe for concurrent use; the persisted order
// status stays the authoritative value.
type PaymentStateStore interface {
	Bind(token string, orderID uint)
	SetPaid(token string, paid bool)
	IsPaid(token string) (paid, known bool)
	OrderID(token string) (uint, bool)
}
