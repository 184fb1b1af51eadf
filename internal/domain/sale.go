package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sale represents a recorded transaction against the catalog.
//
// ProductID is a weak reference: the product may have been deleted since the
// sale was recorded, so reads must tolerate a dangling id. ProductName and
// UnitPrice are frozen copies taken at the moment of sale so that history
// stays accurate when the catalog later renames or reprices the product.
// TotalAmount is computed once at creation and never re-derived.
type Sale struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	ProductName  string    `json:"product_name" db:"product_name"`
	Quantity     int       `json:"quantity" db:"quantity"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	TotalAmount  float64   `json:"total_amount" db:"total_amount"`
	CustomerName string    `json:"customer_name,omitempty" db:"customer_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DashboardStats is a point-in-time aggregate over the catalog and the
// sales ledger. It carries no stored state of its own.
type DashboardStats struct {
	TotalProducts int     `json:"total_products"`
	TotalValue    float64 `json:"total_value"`
	LowStockItems int     `json:"low_stock_items"`
	TodaySales    float64 `json:"today_sales"`
	WeeklySales   float64 `json:"weekly_sales"`
	MonthlySales  float64 `json:"monthly_sales"`
}
