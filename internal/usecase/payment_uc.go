package usecase

import (
	"context"
	"errors"

	"github.com/strideshop/stride/internal/domain"
)

type PaymentUC struct {
	Orders   domain.OrderRepo
	Payments domain.PaymentStateStore
}

// Confirm flips the in-memory flag and persists Paid on the order found by
// token. Calling it again with the same token is a no-op beyond rewriting
// the same state.
func (uc *PaymentUC) Confirm(ctx context.Context, token string) (*domain.Order, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	order, err := uc.Orders.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPaid {
		order.Status = domain.OrderStatusPaid
		if err := uc.Orders.Save(ctx, order); err != nil {
			return nil, err
		}
	}
	uc.Payments.SetPaid(token, true)
	uc.Payments.Bind(token, order.ID)
	return order, nil
}

// Status reports the paid flag for a token. The in-memory store answers the
// common case; after a restart it is empty, so the persisted order status
// decides.
func (uc *PaymentUC) Status(ctx context.Context, token string) (bool, error) {
	if paid, known := uc.Payments.IsPaid(token); known {
		return paid, nil
	}
	order, err := uc.Orders.FindByToken(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	paid := order.Status == domain.OrderStatusPaid
	uc.Payments.SetPaid(token, paid)
	return paid, nil
}
