package transport

import (
	"fmt"
	"net/http"
	"time"

	"stocktrack/internal/middleware"
	"stocktrack/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

type inventoryReportRow struct {
	Name          string  `csv:"Name"`
	Category      string  `csv:"Category"`
	Quantity      int     `csv:"Quantity"`
	CostPrice     float64 `csv:"Cost Price"`
	SellingPrice  float64 `csv:"Selling Price"`
	Supplier      string  `csv:"Supplier"`
	SerialNumber  string  `csv:"Serial Number"`
	MinStockLevel int     `csv:"Min Stock Level"`
}

type salesReportRow struct {
	Date        string  `csv:"Date"`
	Product     string  `csv:"Product"`
	Customer    string  `csv:"Customer"`
	Quantity    int     `csv:"Quantity"`
	UnitPrice   float64 `csv:"Unit Price"`
	TotalAmount float64 `csv:"Total Amount"`
}

// ReportHandler renders the CSV exports the dashboard's reports page offers
type ReportHandler struct {
	catalog service.CatalogService
	sales   service.SalesService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(catalog service.CatalogService, sales service.SalesService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{catalog: catalog, sales: sales, logger: logger}
}

// RegisterRoutes registers the report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/inventory.csv", h.InventoryCSV)
		r.Get("/sales.csv", h.SalesCSV)
	})
}

// InventoryCSV exports the current catalog as a CSV attachment
func (h *ReportHandler) InventoryCSV(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to export inventory report", zap.Error(err))
		respondWithServiceError(w, err)
		return
	}

	rows := make([]*inventoryReportRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, &inventoryReportRow{
			Name:          p.Name,
			Category:      p.Category,
			Quantity:      p.Quantity,
			CostPrice:     p.CostPrice,
			SellingPrice:  p.SellingPrice,
			Supplier:      p.Supplier,
			SerialNumber:  p.SerialNumber,
			MinStockLevel: p.MinStockLevel,
		})
	}

	writeCSV(w, fmt.Sprintf("inventory-report-%s.csv", time.Now().Format("2006-01-02")), rows, h.logger)
}

// SalesCSV exports the sales ledger as a CSV attachment
func (h *ReportHandler) SalesCSV(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListSales(r.Context())
	if err != nil {
		h.logger.Error("Failed to export sales report", zap.Error(err))
		respondWithServiceError(w, err)
		return
	}

	rows := make([]*salesReportRow, 0, len(sales))
	for _, s := range sales {
		customer := s.CustomerName
		if customer == "" {
			customer = "Walk-in"
		}
		rows = append(rows, &salesReportRow{
			Date:        s.CreatedAt.Format("2006-01-02 15:04"),
			Product:     s.ProductName,
			Customer:    customer,
			Quantity:    s.Quantity,
			UnitPrice:   s.UnitPrice,
			TotalAmount: s.TotalAmount,
		})
	}

	writeCSV(w, fmt.Sprintf("sales-report-%s.csv", time.Now().Format("2006-01-02")), rows, h.logger)
}

func writeCSV(w http.ResponseWriter, filename string, rows interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := gocsv.Marshal(rows, w); err != nil {
		// Headers may already be written, so a JSON error envelope is a
		// best effort here.
		logger.Error("Failed to write CSV report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to write report")
	}
}
