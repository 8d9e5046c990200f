package models

import (
	"time"

	"github.com/google/uuid"
)

// GatewayRequest is one inbound user message with its platform context
type GatewayRequest struct {
	UserID   string         `json:"user_id"`
	Message  string         `json:"message"`
	Platform string         `json:"platform"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GatewayResponse is the assistant's reply to a single message
type GatewayResponse struct {
	ID               uuid.UUID      `json:"id"`
	Text             string         `json:"text"`
	Intent           Intent         `json:"intent"`
	Confidence       float64        `json:"confidence"`
	SuggestedActions []string       `json:"suggested_actions,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// GatewayStats counts traffic through the orchestrator since start
type GatewayStats struct {
	Messages  int64            `json:"messages"`
	Scans     int64            `json:"scans"`
	Degraded  int64            `json:"degraded"`
	ByIntent  map[Intent]int64 `json:"by_intent"`
	StartedAt time.Time        `json:"started_at"`
}

// ProviderStatus describes one provider in the fallback chain
type ProviderStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	LastUsed  bool   `json:"last_used"`
}
