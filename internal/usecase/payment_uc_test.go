package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideshop/stride/internal/adapters/paystate"
	"github.com/strideshop/stride/internal/domain"
	"github.com/strideshop/stride/internal/usecase"
)

func TestConfirmIsIdempotent(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.orders = append(orders.orders, &domain.Order{
		ID:           7,
		PaymentToken: "tok-123",
		Status:       domain.OrderStatusUnpaid,
	})
	payments := paystate.NewMemory()
	uc := &usecase.PaymentUC{Orders: orders, Payments: payments}

	o1, err := uc.Confirm(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, o1.Status)

	o2, err := uc.Confirm(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, o2.Status)

	paid, err := uc.Status(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.True(t, paid)
}

func TestConfirmUnknownToken(t *testing.T) {
	uc := &usecase.PaymentUC{Orders: newFakeOrderRepo(), Payments: paystate.NewMemory()}

	_, err := uc.Confirm(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Confirm(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatusFallsBackToPersistedOrder(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.orders = append(orders.orders, &domain.Order{
		ID:           7,
		PaymentToken: "tok-123",
		Status:       domain.OrderStatusPaid,
	})
	// fresh store simulates a process restart
	uc := &usecase.PaymentUC{Orders: orders, Payments: paystate.NewMemory()}

	paid, err := uc.Status(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.True(t, paid, "persisted status wins when the map is cold")

	// answer is cached afterwards
	paid, known := uc.Payments.IsPaid("tok-123")
	assert.True(t, known)
	assert.True(t, paid)
}

func TestStatusUnknownTokenIsFalse(t *testing.T) {
	uc := &usecase.PaymentUC{Orders: newFakeOrderRepo(), Payments: paystate.NewMemory()}
	paid, err := uc.Status(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, paid)
}
