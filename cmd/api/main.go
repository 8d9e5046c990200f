package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"aegis-gateway/internal/api"
	"aegis-gateway/internal/api/handlers"
	"aegis-gateway/internal/config"
	"aegis-gateway/internal/domain/services"
	"aegis-gateway/internal/domain/services/ai"
	"aegis-gateway/internal/infrastructure/cache"
	"aegis-gateway/internal/infrastructure/database"
	"aegis-gateway/internal/infrastructure/database/repository"
	"aegis-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Aegis gateway")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Pick the conversation store backend
	store := buildContextStore(ctx, cfg, db, redisCache, log)

	// Core services
	classifier := services.NewIntentClassifier(log)
	links := services.NewLinkScanner(cfg.Scanners.Link, log)
	emails := services.NewEmailScanner(links, log)
	logScanner := services.NewLogScanner(cfg.Scanners.Logs, log)
	memory := services.NewMemory(store, cfg.Memory.MaxEntries, log)
	responses := services.NewResponseBuilder(log)

	chain := ai.NewChain(buildProviders(cfg, log), ai.ChainOptions{
		Timeout:   cfg.Providers.Timeout,
		MaxTokens: cfg.Providers.MaxTokens,
		Preferred: cfg.Providers.Preferred,
	}, log)

	gateway := services.NewGateway(classifier, links, emails, logScanner, chain, memory, responses, log)

	// Initialize handlers
	deps := handlers.Dependencies{
		Gateway: gateway,
		Memory:  memory,
		Links:   links,
		Emails:  emails,
		Logs:    logScanner,
		Cache:   redisCache,
		DB:      db,
		Logger:  log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure connects the optional backends. The gateway runs
// fine without either; the in-memory store covers development.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		var err error
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
			db = nil
		} else if err := db.Migrate(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to run database migration")
		}
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		var err error
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}

	return db, redisCache
}

// buildContextStore selects the conversation store per configuration,
// falling back to the in-memory store when the backend is unavailable.
func buildContextStore(_ context.Context, cfg *config.Config, db *database.PostgresDB, redisCache *cache.RedisCache, log *logger.Logger) services.ContextStore {
	switch cfg.Memory.Backend {
	case "postgres":
		if db != nil {
			log.Info().Msg("using PostgreSQL conversation store")
			return repository.NewConversationRepository(db, log)
		}
		log.Warn().Msg("postgres backend requested but database unavailable, using in-memory store")
	case "redis":
		if redisCache != nil {
			log.Info().Msg("using Redis conversation store")
			return cache.NewContextStore(redisCache, cfg.Memory.TTL)
		}
		log.Warn().Msg("redis backend requested but cache unavailable, using in-memory store")
	}

	log.Info().Msg("using in-memory conversation store")
	return services.NewInMemoryContextStore()
}

// buildProviders assembles the LLM providers in configured order. The
// chain appends the local knowledge base itself.
func buildProviders(cfg *config.Config, log *logger.Logger) []ai.LLMProvider {
	var providers []ai.LLMProvider
	for _, name := range cfg.Providers.Order {
		switch name {
		case "anthropic":
			if cfg.Providers.Anthropic.Enabled {
				providers = append(providers, ai.NewAnthropic(cfg.Providers.Anthropic, cfg.Providers.Timeout, log))
			}
		case "gemini":
			if cfg.Providers.Gemini.Enabled {
				providers = append(providers, ai.NewGemini(cfg.Providers.Gemini, cfg.Providers.Timeout, log))
			}
		case "local":
			providers = append(providers, ai.NewLocal(log))
		default:
			log.Warn().Str("provider", name).Msg("unknown provider in order, skipping")
		}
	}
	return providers
}
