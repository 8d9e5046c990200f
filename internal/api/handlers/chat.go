package handlers

import (
	"encoding/json"
	"net/http"

	"aegis-gateway/internal/domain/services"
	"aegis-gateway/pkg/logger"
)

// ChatHandler handles conversational endpoints
type ChatHandler struct {
	gateway *services.Gateway
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(gw *services.Gateway, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		gateway: gw,
		logger:  log.WithComponent("chat-handler"),
	}
}

// ChatRequest is the request body for a chat message
type ChatRequest struct {
	UserID   string         `json:"user_id"`
	Message  string         `json:"message"`
	Platform string         `json:"platform,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Send handles POST /api/v1/chat - routes a message through the gateway
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		h.respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Message == "" {
		h.respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.Platform == "" {
		req.Platform = "web"
	}

	response, _ := h.gateway.Process(r.Context(), req.UserID, req.Message, req.Platform, req.Metadata)

	h.logger.Info().
		Str("intent", string(response.Intent)).
		Float64("confidence", response.Confidence).
		Str("platform", req.Platform).
		Msg("message processed")

	h.respondJSON(w, http.StatusOK, response)
}

func (h *ChatHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ChatHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
