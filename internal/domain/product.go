package domain

import (
	"time"
)

type Brand struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;uniqueIndex"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;uniqueIndex"`
}

type Product struct {
	ID            uint     `gorm:"primaryKey"`
	Name          string   `gorm:"size:180;not null"`
	Description   string   `gorm:"type:text"`
	Price         float64  `gorm:"type:decimal(12,2);not null"`
	DiscountPrice *float64 `gorm:"type:decimal(12,2)"`
	ImageURL      string   `gorm:"size:255"`
	CategoryID    *uint    `gorm:"index"`
	Category      *Category
	BrandID       *uint `gorm:"index"`
	Brand         *Brand
	IsFeatured    bool `gorm:"default:false;index"`
	IsSpecialDeal bool `gorm:"default:false"`
	Variants      []ProductVariant
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductVariant is the unit of inventory truth: stock is tracked per
// (product, size, color), never against the product row itself. A product
// with no variants cannot be purchased.
type ProductVariant struct {
	ID            uint `gorm:"primaryKey"`
	ProductID     uint `gorm:"index;not null"`
	Product       *Product
	Size          string `gorm:"size:20"`
	Color         string `gorm:"size:40"`
	StockQuantity int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductFilter narrows catalog listings. CategoryIDs is an OR set; the
// department pages pass their fixed category pairs here.
type ProductFilter struct {
	CategoryIDs []uint
	Query       string
}
