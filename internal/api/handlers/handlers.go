package handlers

import (
	"aegis-gateway/internal/domain/services"
	"aegis-gateway/internal/infrastructure/cache"
	"aegis-gateway/internal/infrastructure/database"
	"aegis-gateway/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health *HealthHandler
	Chat   *ChatHandler
	Scan   *ScanHandler
	Memory *MemoryHandler
	Status *StatusHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Gateway *services.Gateway
	Memory  *services.Memory
	Links   *services.LinkScanner
	Emails  *services.EmailScanner
	Logs    *services.LogScanner
	Cache   *cache.RedisCache
	DB      *database.PostgresDB
	Logger  *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Cache, deps.DB, deps.Logger),
		Chat:   NewChatHandler(deps.Gateway, deps.Logger),
		Scan:   NewScanHandler(deps.Links, deps.Emails, deps.Logs, deps.Logger),
		Memory: NewMemoryHandler(deps.Memory, deps.Logger),
		Status: NewStatusHandler(deps.Gateway, deps.Logger),
	}
}
