package transport

import (
	"net/http"

	"stocktrack/internal/middleware"
	"stocktrack/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordSaleRequest represents the sale creation payload
type RecordSaleRequest struct {
	ProductID    string  `json:"product_id" validate:"required,uuid"`
	Quantity     int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice    float64 `json:"unit_price" validate:"gte=0"`
	CustomerName string  `json:"customer_name"`
}

// SaleHandler handles HTTP requests for the sales ledger
type SaleHandler struct {
	sales  service.SalesService
	logger *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(sales service.SalesService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{sales: sales, logger: logger}
}

// RegisterRoutes registers all ledger routes
func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Record)
		r.Delete("/{id}", h.Reverse)
	})
}

// List returns all sales, newest first
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListSales(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sales", zap.Error(err))
		respondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

// Record creates a sale, debiting the product's stock
func (h *SaleHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sale validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	sale, err := h.sales.RecordSale(r.Context(), productID, req.Quantity, req.UnitPrice, req.CustomerName)
	if err != nil {
		h.logger.Debug("Failed to record sale",
			zap.Error(err),
			zap.String("product_id", req.ProductID),
			zap.Int("quantity", req.Quantity),
		)
		respondWithServiceError(w, err)
		return
	}

	h.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("product_id", sale.ProductID.String()),
		zap.Int("quantity", sale.Quantity),
		zap.Float64("total_amount", sale.TotalAmount),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, sale)
}

// Reverse deletes a sale and restores the stock it consumed
func (h *SaleHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	if err := h.sales.ReverseSale(r.Context(), id); err != nil {
		h.logger.Debug("Failed to reverse sale", zap.Error(err), zap.String("sale_id", id.String()))
		respondWithServiceError(w, err)
		return
	}

	h.logger.Info("Sale reversed", zap.String("sale_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
