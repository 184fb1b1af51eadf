package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stocktrack/internal/domain"
	"stocktrack/internal/storage"

	"github.com/google/uuid"
)

// ErrValidation marks malformed input rejected before anything is persisted.
var ErrValidation = errors.New("validation failed")

// NewProduct carries the caller-supplied fields for a catalog add. The id
// and timestamps are assigned here, never by the caller.
type NewProduct struct {
	Name          string
	Category      string
	Quantity      int
	CostPrice     float64
	SellingPrice  float64
	Supplier      string
	SerialNumber  string
	MinStockLevel int
}

// CatalogService defines the business logic for the product catalog.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	AddProduct(ctx context.Context, input NewProduct) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch storage.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	LowStockProducts(ctx context.Context) ([]*domain.Product, error)
}

type catalogService struct {
	store storage.Store
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(store storage.Store) CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.store.ListProducts(ctx)
}

// AddProduct assigns a fresh id and timestamps and persists the product.
func (s *catalogService) AddProduct(ctx context.Context, input NewProduct) (*domain.Product, error) {
	if err := validateNewProduct(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(input.Name),
		Category:      input.Category,
		Quantity:      input.Quantity,
		CostPrice:     input.CostPrice,
		SellingPrice:  input.SellingPrice,
		Supplier:      input.Supplier,
		SerialNumber:  input.SerialNumber,
		MinStockLevel: input.MinStockLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	return product, nil
}

// UpdateProduct merges the patch into the existing record. Unset fields are
// left untouched; updated_at is refreshed by the store.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, patch storage.ProductPatch) (*domain.Product, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	return s.store.UpdateProduct(ctx, id, patch)
}

// DeleteProduct removes the product unconditionally. Sale history keeps its
// frozen product name, so nothing else is touched.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteProduct(ctx, id)
}

// LowStockProducts returns products at or below their reorder threshold,
// including out-of-stock ones.
func (s *catalogService) LowStockProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	low := []*domain.Product{}
	for _, product := range products {
		if product.LowStock() {
			low = append(low, product)
		}
	}

	return low, nil
}

func validateNewProduct(input NewProduct) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if input.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if input.CostPrice < 0 {
		return fmt.Errorf("%w: cost price must not be negative", ErrValidation)
	}
	if input.SellingPrice < 0 {
		return fmt.Errorf("%w: selling price must not be negative", ErrValidation)
	}
	if input.MinStockLevel < 0 {
		return fmt.Errorf("%w: min stock level must not be negative", ErrValidation)
	}
	return nil
}

func validatePatch(patch storage.ProductPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if patch.CostPrice != nil && *patch.CostPrice < 0 {
		return fmt.Errorf("%w: cost price must not be negative", ErrValidation)
	}
	if patch.SellingPrice != nil && *patch.SellingPrice < 0 {
		return fmt.Errorf("%w: selling price must not be negative", ErrValidation)
	}
	if patch.MinStockLevel != nil && *patch.MinStockLevel < 0 {
		return fmt.Errorf("%w: min stock level must not be negative", ErrValidation)
	}
	return nil
}
