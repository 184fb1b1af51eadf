package transport

import (
	"net/http"

	"stocktrack/internal/middleware"
	"stocktrack/internal/service"
	"stocktrack/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the catalog-add payload
type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category"`
	Quantity      int     `json:"quantity" validate:"gte=0"`
	CostPrice     float64 `json:"cost_price" validate:"gte=0"`
	SellingPrice  float64 `json:"selling_price" validate:"gte=0"`
	Supplier      string  `json:"supplier"`
	SerialNumber  string  `json:"serial_number"`
	MinStockLevel int     `json:"min_stock_level" validate:"gte=0"`
}

// UpdateProductRequest represents a partial catalog update; absent fields
// are left untouched.
type UpdateProductRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1"`
	Category      *string  `json:"category"`
	Quantity      *int     `json:"quantity" validate:"omitempty,gte=0"`
	CostPrice     *float64 `json:"cost_price" validate:"omitempty,gte=0"`
	SellingPrice  *float64 `json:"selling_price" validate:"omitempty,gte=0"`
	Supplier      *string  `json:"supplier"`
	SerialNumber  *string  `json:"serial_number"`
	MinStockLevel *int     `json:"min_stock_level" validate:"omitempty,gte=0"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers all catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/low-stock", h.LowStock)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns all products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		respondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Create handles catalog-add
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), service.NewProduct{
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      req.Quantity,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		Supplier:      req.Supplier,
		SerialNumber:  req.SerialNumber,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		h.logger.Error("Failed to add product", zap.Error(err))
		respondWithServiceError(w, err)
		return
	}

	h.logger.Info("Product added",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles a partial catalog update
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, storage.ProductPatch{
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      req.Quantity,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		Supplier:      req.Supplier,
		SerialNumber:  req.SerialNumber,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		h.logger.Debug("Failed to update product", zap.Error(err), zap.String("product_id", id.String()))
		respondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product from the catalog. Sale history is untouched.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Debug("Failed to delete product", zap.Error(err), zap.String("product_id", id.String()))
		respondWithServiceError(w, err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// LowStock returns products at or below their reorder threshold
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.LowStockProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list low stock products", zap.Error(err))
		respondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}
