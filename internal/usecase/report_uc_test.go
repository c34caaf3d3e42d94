package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideshop/stride/internal/domain"
	"github.com/strideshop/stride/internal/usecase"
)

func seedReportOrders(orders *fakeOrderRepo) {
	day := func(daysAgo int) time.Time {
		return time.Now().UTC().AddDate(0, 0, -daysAgo)
	}
	orders.orders = append(orders.orders,
		&domain.Order{ID: 1, UserID: 1, CreatedAt: day(1), TotalAmount: 100, Details: []domain.OrderDetail{{Quantity: 2}}},
		&domain.Order{ID: 2, UserID: 2, CreatedAt: day(1), TotalAmount: 50, Details: []domain.OrderDetail{{Quantity: 1}}},
		&domain.Order{ID: 3, UserID: 1, CreatedAt: day(5), TotalAmount: 70, Details: []domain.OrderDetail{{Quantity: 3}}},
	)
}

func TestReportSummary(t *testing.T) {
	orders := newFakeOrderRepo()
	seedReportOrders(orders)
	uc := &usecase.ReportUC{Orders: orders, Users: newFakeUserRepo()}

	s, err := uc.Summary(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Orders)
	assert.InDelta(t, 220.0, s.Revenue, 0.001)
	assert.Equal(t, 6, s.Items)
	assert.InDelta(t, 220.0/3, s.AOV, 0.001)
}

func TestReportSummaryEmptyRange(t *testing.T) {
	uc := &usecase.ReportUC{Orders: newFakeOrderRepo(), Users: newFakeUserRepo()}
	s, err := uc.Summary(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Orders)
	assert.Zero(t, s.AOV, "no division by zero on an empty range")
}

func TestReportTimeseriesGroupsByDay(t *testing.T) {
	orders := newFakeOrderRepo()
	seedReportOrders(orders)
	uc := &usecase.ReportUC{Orders: orders, Users: newFakeUserRepo()}

	points, err := uc.Timeseries(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, points, 2)

	// sorted ascending: the 5-days-ago point comes first
	assert.True(t, points[0].Period < points[1].Period)
	assert.InDelta(t, 70.0, points[0].Revenue, 0.001)
	assert.Equal(t, 1, points[0].Orders)
	assert.InDelta(t, 150.0, points[1].Revenue, 0.001)
	assert.Equal(t, 2, points[1].Orders)
}

func TestStats(t *testing.T) {
	orders := newFakeOrderRepo()
	seedReportOrders(orders)
	users := newFakeUserRepo()
	_ = users.Create(context.Background(), &domain.User{Email: "admin@b.com", RoleID: domain.RoleAdmin})
	_ = users.Create(context.Background(), &domain.User{Email: "c1@b.com", RoleID: domain.RoleCustomer})
	_ = users.Create(context.Background(), &domain.User{Email: "c2@b.com", RoleID: domain.RoleCustomer})

	uc := &usecase.ReportUC{Orders: orders, Users: users}
	stats, err := uc.Stats(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 220.0, stats.TotalSales, 0.001)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.TotalCustomers, "admins are not customers")
	assert.InDelta(t, stats.TotalSales, stats.Profit, 0.001)
}
