package service

import (
	"context"
	"time"

	"stocktrack/internal/domain"
	"stocktrack/internal/storage"
)

// StatsService derives dashboard aggregates from current store snapshots.
type StatsService interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

type statsService struct {
	store storage.Store
	now   func() time.Time
}

// NewStatsService creates a new instance of StatsService
func NewStatsService(store storage.Store) StatsService {
	return &statsService{store: store, now: time.Now}
}

// NewStatsServiceWithClock allows tests to pin the reference time for the
// revenue windows.
func NewStatsServiceWithClock(store storage.Store, now func() time.Time) StatsService {
	return &statsService{store: store, now: now}
}

// DashboardStats computes the dashboard card values. Revenue windows are
// [midnight-today, now), [now-7d, now) and [now-30d, now); "today" uses the
// calendar day boundary in the reference time's location.
func (s *statsService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	stats := &domain.DashboardStats{
		TotalProducts: len(products),
	}

	for _, product := range products {
		stats.TotalValue += float64(product.Quantity) * product.CostPrice
		if product.LowStock() {
			stats.LowStockItems++
		}
	}

	for _, sale := range sales {
		// Windows are half-open on the right: [start, now).
		if !sale.CreatedAt.Before(now) {
			continue
		}
		if !sale.CreatedAt.Before(midnight) {
			stats.TodaySales += sale.TotalAmount
		}
		if !sale.CreatedAt.Before(weekAgo) {
			stats.WeeklySales += sale.TotalAmount
		}
		if !sale.CreatedAt.Before(monthAgo) {
			stats.MonthlySales += sale.TotalAmount
		}
	}

	return stats, nil
}
