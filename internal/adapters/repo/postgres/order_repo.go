package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/strideshop/stride/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create and AddDetail run on the checkout transaction handle, never on
// the repo's own connection.
func (r *OrderRepo) Create(tx *gorm.DB, o *domain.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepo) AddDetail(tx *gorm.DB, d *domain.OrderDetail) error {
	return tx.Create(d).Error
}

func (r *OrderRepo) CountDetails(ctx context.Context, orderID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.OrderDetail{}).
		Where("order_id = ?", orderID).
		Count(&n).Error
	return n, err
}

func (r *OrderRepo) FindByToken(ctx context.Context, token string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Details.ProductVariant").
		Preload("Details.ProductVariant.Product").
		First(&o, "payment_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	var list []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Details.ProductVariant").
		Preload("Details.ProductVariant.Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OrderRepo) ListInRange(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	var list []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OrderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Count(&n).Error
	return n, err
}

func (r *OrderRepo) SumTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
