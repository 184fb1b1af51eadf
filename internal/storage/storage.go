package storage

import (
	"context"
	"errors"

	"stocktrack/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSaleNotFound    = errors.New("sale not found")
	// ErrInsufficientStock is returned when a sale would overdraw a
	// product's quantity. No partial sale is ever recorded.
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCategoryExists    = errors.New("category with this name already exists")
)

// ProductPatch carries a partial product update. Nil fields are left
// untouched by UpdateProduct.
type ProductPatch struct {
	Name          *string
	Category      *string
	Quantity      *int
	CostPrice     *float64
	SellingPrice  *float64
	Supplier      *string
	SerialNumber  *string
	MinStockLevel *int
}

// Store is the single capability interface both storage backends implement.
// Callers depend only on this interface; which variant is active is a
// process-wide configuration decision made once at startup.
//
// RecordSale and ReverseSale are part of the store rather than composed from
// the product operations so that each backend can commit the stock mutation
// and the ledger write as one atomic unit.
type Store interface {
	// Catalog operations.
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*domain.Product, error)
	// DeleteProduct removes the product unconditionally. Historical sales
	// referencing it are left in place with a dangling product id.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// Ledger operations. RecordSale debits the referenced product and
	// inserts the sale atomically; it fails with ErrProductNotFound or
	// ErrInsufficientStock and leaves the catalog unchanged on rejection.
	// The sale passed in already carries its id, timestamps, unit price and
	// total amount; the store snapshots the product name inside the same
	// commit as the stock decrement.
	RecordSale(ctx context.Context, sale *domain.Sale) error
	// ReverseSale deletes the sale and credits its quantity back to the
	// referenced product. When the product no longer exists the deletion
	// still succeeds and no stock is restored.
	ReverseSale(ctx context.Context, saleID uuid.UUID) error
	ListSales(ctx context.Context) ([]*domain.Sale, error)

	// Category registry.
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	RegisterCategory(ctx context.Context, category *domain.Category) error

	Close() error
}
