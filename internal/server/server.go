package server

import (
	"fmt"
	"net/http"
	"time"

	"stocktrack/internal/config"
	custommiddleware "stocktrack/internal/middleware"
	"stocktrack/internal/service"
	"stocktrack/internal/storage"
	"stocktrack/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  storage.Store
}

// NewServer wires the chosen storage backend into the services and the
// HTTP routes. Which backend is active was decided once at startup; nothing
// below this point knows or cares which one it is.
func NewServer(cfg *config.Config, logger *zap.Logger, store storage.Store) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 120,
			Window:            time.Minute,
			KeyPrefix:         "stocktrack_rate_limit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize services
	catalogService := service.NewCatalogService(store)
	salesService := service.NewSalesService(store)
	statsService := service.NewStatsService(store)
	categoryService := service.NewCategoryService(store)

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogService, logger)
	saleHandler := transport.NewSaleHandler(salesService, logger)
	dashboardHandler := transport.NewDashboardHandler(statsService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	reportHandler := transport.NewReportHandler(catalogService, salesService, logger)

	// Register routes
	productHandler.RegisterRoutes(router)
	saleHandler.RegisterRoutes(router)
	dashboardHandler.RegisterRoutes(router)
	categoryHandler.RegisterRoutes(router)
	reportHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  store,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close storage backend", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
