package service

import (
	"context"
	"fmt"
	"time"

	"stocktrack/internal/domain"
	"stocktrack/internal/storage"

	"github.com/google/uuid"
)

// SalesService defines the business logic for the sales ledger.
type SalesService interface {
	// RecordSale debits the product's stock and records the sale as one
	// atomic operation. It fails with storage.ErrProductNotFound or
	// storage.ErrInsufficientStock; in both cases the catalog is unchanged.
	RecordSale(ctx context.Context, productID uuid.UUID, quantity int, unitPrice float64, customerName string) (*domain.Sale, error)
	// ReverseSale deletes the sale and credits its quantity back to the
	// product if it still exists. Unknown sale ids fail with
	// storage.ErrSaleNotFound and mutate nothing.
	ReverseSale(ctx context.Context, saleID uuid.UUID) error
	ListSales(ctx context.Context) ([]*domain.Sale, error)
}

type salesService struct {
	store storage.Store
}

// NewSalesService creates a new instance of SalesService
func NewSalesService(store storage.Store) SalesService {
	return &salesService{store: store}
}

func (s *salesService) RecordSale(ctx context.Context, productID uuid.UUID, quantity int, unitPrice float64, customerName string) (*domain.Sale, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: sale quantity must be at least 1", ErrValidation)
	}
	if unitPrice < 0 {
		return nil, fmt.Errorf("%w: unit price must not be negative", ErrValidation)
	}

	// Unit price and total amount are frozen here; the product name is
	// snapshotted by the store inside the same commit as the decrement.
	sale := &domain.Sale{
		ID:           uuid.New(),
		ProductID:    productID,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		TotalAmount:  float64(quantity) * unitPrice,
		CustomerName: customerName,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.RecordSale(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *salesService) ReverseSale(ctx context.Context, saleID uuid.UUID) error {
	return s.store.ReverseSale(ctx, saleID)
}

func (s *salesService) ListSales(ctx context.Context) ([]*domain.Sale, error) {
	return s.store.ListSales(ctx)
}
