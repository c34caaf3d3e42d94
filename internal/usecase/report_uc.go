package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/strideshop/stride/internal/domain"
)

type Stats struct {
	TotalSales     float64 `json:"totalSales"`
	TotalOrders    int64   `json:"totalOrders"`
	TotalCustomers int64   `json:"totalCustomers"`
	Profit         float64 `json:"profit"`
}

type ReportSummary struct {
	Revenue float64 `json:"revenueUSD"`
	Orders  int     `json:"orders"`
	Items   int     `json:"items"`
	AOV     float64 `json:"aov"`
}

type ReportPoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenueUSD"`
	Orders  int     `json:"orders"`
}

type ReportUC struct {
	Orders domain.OrderRepo
	Users  domain.UserRepo
}

// Stats feeds the dashboard tiles. Profit mirrors revenue until cost
// prices exist.
func (uc *ReportUC) Stats(ctx context.Context) (*Stats, error) {
	sales, err := uc.Orders.SumTotal(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := uc.Orders.Count(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := uc.Users.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{TotalSales: sales, TotalOrders: orders, TotalCustomers: customers, Profit: sales}, nil
}

// ReportRange normalizes the optional from/to query dates: default last 30
// days, end of day inclusive.
func ReportRange(from, to *time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()
	start := now.Truncate(24 * time.Hour).AddDate(0, 0, -30)
	if from != nil {
		start = from.Truncate(24 * time.Hour)
	}
	end := now.Truncate(24 * time.Hour)
	if to != nil {
		end = to.Truncate(24 * time.Hour)
	}
	return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func (uc *ReportUC) Summary(ctx context.Context, from, to *time.Time) (*ReportSummary, error) {
	start, end := ReportRange(from, to)
	orders, err := uc.Orders.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	s := &ReportSummary{Orders: len(orders)}
	for _, o := range orders {
		s.Revenue += o.TotalAmount
		for _, d := range o.Details {
			s.Items += d.Quantity
		}
	}
	if s.Orders > 0 {
		s.AOV = s.Revenue / float64(s.Orders)
	}
	return s, nil
}

// Timeseries groups the range's orders by calendar day.
func (uc *ReportUC) Timeseries(ctx context.Context, from, to *time.Time) ([]ReportPoint, error) {
	start, end := ReportRange(from, to)
	orders, err := uc.Orders.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]*ReportPoint)
	for _, o := range orders {
		day := o.CreatedAt.UTC().Format("2006-01-02")
		p, ok := byDay[day]
		if !ok {
			p = &ReportPoint{Period: day}
			byDay[day] = p
		}
		p.Revenue += o.TotalAmount
		p.Orders++
	}
	out := make([]ReportPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}
