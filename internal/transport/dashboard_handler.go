package transport

import (
	"net/http"

	"stocktrack/internal/middleware"
	"stocktrack/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DashboardHandler serves the aggregate statistics for the dashboard cards
type DashboardHandler struct {
	stats  service.StatsService
	logger *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(stats service.StatsService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{stats: stats, logger: logger}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/dashboard/stats", h.Stats)
}

// Stats returns the current dashboard aggregates
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.DashboardStats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute dashboard stats", zap.Error(err))
		respondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}
