package transport

import (
	"errors"
	"net/http"

	"stocktrack/internal/middleware"
	"stocktrack/internal/service"
	"stocktrack/internal/storage"
)

// respondWithServiceError maps the error taxonomy onto HTTP status codes.
// Anything unrecognized is a backend failure and surfaces as 500 without
// being masked, so the caller can retry the whole operation.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, storage.ErrSaleNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "sale not found")
	case errors.Is(err, storage.ErrInsufficientStock):
		middleware.RespondWithError(w, http.StatusConflict, "insufficient stock")
	case errors.Is(err, storage.ErrCategoryExists):
		middleware.RespondWithError(w, http.StatusConflict, "category already exists")
	default:
		middleware.RespondWithError(w, http.StatusInternalServerError, "storage backend failure")
	}
}
