package transport

import (
	"net/http"

	"stocktrack/internal/middleware"
	"stocktrack/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterCategoryRequest represents the category registration payload
type RegisterCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CategoryHandler handles HTTP requests for the category registry
type CategoryHandler struct {
	categories service.CategoryService
	logger     *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// RegisterRoutes registers the category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Register)
	})
}

// List returns all registered categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		respondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Register adds a category name to the registry
func (h *CategoryHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterCategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.categories.RegisterCategory(r.Context(), req.Name)
	if err != nil {
		h.logger.Debug("Failed to register category", zap.Error(err), zap.String("name", req.Name))
		respondWithServiceError(w, err)
		return
	}

	h.logger.Info("Category registered", zap.String("name", category.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}
