package handlers

import (
	"encoding/json"
	"net/http"

	"aegis-gateway/internal/domain/models"
	"aegis-gateway/internal/domain/services"
	"aegis-gateway/pkg/logger"
)

// StatusHandler exposes gateway statistics and provider availability
type StatusHandler struct {
	gateway *services.Gateway
	logger  *logger.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(gw *services.Gateway, log *logger.Logger) *StatusHandler {
	return &StatusHandler{
		gateway: gw,
		logger:  log.WithComponent("status-handler"),
	}
}

// StatusResponse is the response body for the status endpoint
type StatusResponse struct {
	Stats     models.GatewayStats     `json:"stats"`
	Providers []models.ProviderStatus `json:"providers"`
}

// Get handles GET /api/v1/status
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	response := StatusResponse{
		Stats:     h.gateway.Stats(),
		Providers: h.gateway.ProviderStatus(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
