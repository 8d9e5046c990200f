package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"aegis-gateway/internal/api/handlers"
	apimiddleware "aegis-gateway/internal/api/middleware"
	"aegis-gateway/internal/config"
	"aegis-gateway/internal/infrastructure/cache"
	"aegis-gateway/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Health checks
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	// API v1 routes
	router.Route("/api/v1", func(api chi.Router) {
		// Conversational gateway
		api.Post("/chat", r.handlers.Chat.Send)

		// Direct scanner access
		api.Route("/scan", func(scan chi.Router) {
			scan.Post("/link", r.handlers.Scan.Link)
			scan.Post("/email", r.handlers.Scan.Email)
			scan.Post("/logs", r.handlers.Scan.Logs)
		})

		// Conversation memory
		api.Route("/memory", func(mem chi.Router) {
			mem.Get("/{user_id}/stats", r.handlers.Memory.Stats)
			mem.Delete("/{user_id}", r.handlers.Memory.Clear)
		})

		// Gateway status
		api.Get("/status", r.handlers.Status.Get)
	})

	return router
}
