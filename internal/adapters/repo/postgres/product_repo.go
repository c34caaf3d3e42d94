package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/strideshop/stride/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	var list []domain.Product
	q := r.db.WithContext(ctx).Model(&domain.Product{}).
		Preload("Brand").Preload("Category")
	if len(f.CategoryIDs) > 0 {
		q = q.Where("category_id IN ?", f.CategoryIDs)
	}
	if f.Query != "" {
		like := "%" + strings.TrimSpace(f.Query) + "%"
		q = q.Joins("LEFT JOIN brands ON brands.id = products.brand_id").
			Where("LOWER(products.name) LIKE LOWER(?) OR LOWER(products.description) LIKE LOWER(?) OR LOWER(brands.name) LIKE LOWER(?)",
				like, like, like)
	}
	if err := q.Order("products.name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Brand").Preload("Category").Preload("Variants").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductVariant{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *ProductRepo) Brands(ctx context.Context) ([]domain.Brand, error) {
	var list []domain.Brand
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) Categories(ctx context.Context) ([]domain.Category, error) {
	var list []domain.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// --- variants ---

func (r *ProductRepo) VariantsInStock(ctx context.Context, productID uint) ([]domain.ProductVariant, error) {
	var list []domain.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND stock_quantity > 0", productID).
		Order("size asc, color asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) ListInventory(ctx context.Context) ([]domain.ProductVariant, error) {
	var list []domain.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Joins("LEFT JOIN products ON products.id = product_variants.product_id").
		Order("products.name asc, product_variants.size asc, product_variants.color asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) FindVariant(ctx context.Context, productID uint, size, color string) (*domain.ProductVariant, error) {
	var v domain.ProductVariant
	err := r.db.WithContext(ctx).
		First(&v, "product_id = ? AND LOWER(size) = LOWER(?) AND LOWER(color) = LOWER(?)",
			productID, size, color).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *ProductRepo) FindVariantByID(ctx context.Context, id uint) (*domain.ProductVariant, error) {
	var v domain.ProductVariant
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *ProductRepo) SaveVariant(ctx context.Context, v *domain.ProductVariant) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *ProductRepo) DeleteVariant(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.ProductVariant{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ResolveVariant runs inside the checkout transaction. Exact
// case-insensitive match on (size, color) first, empty axes included;
// when the cart line's axes don't match anything, any variant of the
// product will do.
func (r *ProductRepo) ResolveVariant(tx *gorm.DB, productID uint, size, color string) (*domain.ProductVariant, error) {
	var v domain.ProductVariant
	err := tx.First(&v, "product_id = ? AND LOWER(size) = LOWER(?) AND LOWER(color) = LOWER(?)",
		productID, size, color).Error
	if err == nil {
		return &v, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	err = tx.Order("id asc").First(&v, "product_id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// DecrementStock is the oversell guard: the decrement and the stock check
// are one statement, so two concurrent checkouts cannot both pass on the
// same units.
func (r *ProductRepo) DecrementStock(tx *gorm.DB, variantID uint, qty int) (bool, error) {
	res := tx.Model(&domain.ProductVariant{}).
		Where("id = ? AND stock_quantity >= ?", variantID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
