package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strideshop/stride/internal/domain"
)

func TestNormalizePaymentMethod(t *testing.T) {
	tests := []struct {
		submitted string
		norm      string
		stored    string
	}{
		{"COD", "cod", "cash"},
		{"cash", "cash", "cash"},
		{"Transfer", "transfer", "bank"},
		{"bank", "bank", "bank"},
		{"  QR ", "qr", "qr"},
		{"card", "card", "card"},
		{"voucher", "voucher", "voucher"},
	}
	for _, tt := range tests {
		norm, stored := domain.NormalizePaymentMethod(tt.submitted)
		assert.Equal(t, tt.norm, norm, "norm for %q", tt.submitted)
		assert.Equal(t, tt.stored, stored, "stored for %q", tt.submitted)
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, domain.OrderStatusUnpaid, domain.InitialStatus("cash"))
	assert.Equal(t, domain.OrderStatusPaid, domain.InitialStatus("bank"))
	assert.Equal(t, domain.OrderStatusPaid, domain.InitialStatus("qr"))
	assert.Equal(t, domain.OrderStatusPaid, domain.InitialStatus("card"))
	assert.Equal(t, domain.OrderStatusNew, domain.InitialStatus("voucher"))
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &domain.InsufficientStockError{ProductName: "Dunk Low", Requested: 3, Available: 1}
	assert.Equal(t, "insufficient stock for Dunk Low. Available: 1, Requested: 3", err.Error())
}
