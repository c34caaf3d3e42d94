package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusNew    OrderStatus = "New"
	OrderStatusUnpaid OrderStatus = "Unpaid"
	OrderStatusPaid   OrderStatus = "Paid"
)

type Order struct {
	ID                uint      `gorm:"primaryKey"`
	UserID            uint      `gorm:"index;not null"`
	CreatedAt         time.Time `gorm:"index"`
	TotalAmount       float64   `gorm:"type:decimal(12,2);not null"`
	PaymentMethod     string    `gorm:"size:30;index"`
	PaymentToken      string    `gorm:"size:64;uniqueIndex;not null"`
	Status            OrderStatus `gorm:"type:varchar(20);index"`
	ShippingAddress   string    `gorm:"size:255"`
	NotificationEmail string    `gorm:"size:140"`
	Details           []OrderDetail
}

// OrderDetail freezes the unit price at order time; later product price
// changes never touch it.
type OrderDetail struct {
	ID               uint `gorm:"primaryKey"`
	OrderID          uint `gorm:"index;not null"`
	ProductVariantID uint `gorm:"index;not null"`
	ProductVariant   *ProductVariant
	Quantity         int     `gorm:"not null"`
	UnitPrice        float64 `gorm:"type:decimal(12,2);not null"`
}

// NormalizePaymentMethod lowercases the submitted method and maps the
// front-end aliases onto the stored values: cod becomes cash, transfer
// becomes bank. The first return value is the raw lowercased submission,
// which still drives the QR instruction for transfers.
func NormalizePaymentMethod(submitted string) (norm, stored string) {
	norm = strings.ToLower(strings.TrimSpace(submitted))
	switch norm {
	case "cod":
		stored = "cash"
	case "transfer":
		stored = "bank"
	default:
		stored = norm
	}
	return norm, stored
}

// InitialStatus derives the status an order is created with, before any
// external payment confirmation happens.
func InitialStatus(storedMethod string) OrderStatus {
	switch storedMethod {
	case "cash":
		return OrderStatusUnpaid
	case "bank", "qr", "transfer", "card":
		return OrderStatusPaid
	default:
		return OrderStatusNew
	}
}
