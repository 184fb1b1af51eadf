package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog item and its current stock level.
// Quantity is never negative at rest; stock mutations go through the
// catalog update or the sale protocol, never direct field writes.
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Category      string    `json:"category" db:"category"`
	Quantity      int       `json:"quantity" db:"quantity"`
	CostPrice     float64   `json:"cost_price" db:"cost_price"`
	SellingPrice  float64   `json:"selling_price" db:"selling_price"`
	Supplier      string    `json:"supplier,omitempty" db:"supplier"`
	SerialNumber  string    `json:"serial_number,omitempty" db:"serial_number"`
	MinStockLevel int       `json:"min_stock_level" db:"min_stock_level"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// LowStock reports whether the product is at or below its reorder threshold.
// A zero quantity always counts as low stock.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.MinStockLevel
}

// Category represents a registered product category. Categories are loaded
// from the backend at startup and only grow through an explicit register
// operation.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
