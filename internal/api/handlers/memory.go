package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aegis-gateway/internal/domain/services"
	"aegis-gateway/pkg/logger"
)

// MemoryHandler handles conversation memory endpoints
type MemoryHandler struct {
	memory *services.Memory
	logger *logger.Logger
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(m *services.Memory, log *logger.Logger) *MemoryHandler {
	return &MemoryHandler{
		memory: m,
		logger: log.WithComponent("memory-handler"),
	}
}

// Stats handles GET /api/v1/memory/{user_id}/stats
func (h *MemoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		h.respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	stats := h.memory.Stats(r.Context(), userID)
	h.respondJSON(w, http.StatusOK, stats)
}

// Clear handles DELETE /api/v1/memory/{user_id}
func (h *MemoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		h.respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := h.memory.Clear(r.Context(), userID); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear conversation")
		h.respondError(w, http.StatusInternalServerError, "failed to clear conversation")
		return
	}

	h.logger.Info().Str("user_id", userID).Msg("conversation cleared")
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *MemoryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *MemoryHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
