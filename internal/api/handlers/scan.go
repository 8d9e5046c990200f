package handlers

import (
	"encoding/json"
	"net/http"

	"aegis-gateway/internal/domain/services"
	"aegis-gateway/pkg/logger"
)

// ScanHandler exposes the risk scanners directly, bypassing the chat flow
type ScanHandler struct {
	links  *services.LinkScanner
	emails *services.EmailScanner
	logs   *services.LogScanner
	logger *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(links *services.LinkScanner, emails *services.EmailScanner, logs *services.LogScanner, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		links:  links,
		emails: emails,
		logs:   logs,
		logger: log.WithComponent("scan-handler"),
	}
}

// ScanLinkRequest is the request body for a link scan
type ScanLinkRequest struct {
	URL string `json:"url"`
}

// ScanEmailRequest is the request body for an email scan
type ScanEmailRequest struct {
	Content string `json:"content"`
}

// ScanLogsRequest is the request body for a log scan
type ScanLogsRequest struct {
	Source  string `json:"source,omitempty"`
	Content string `json:"content"`
}

// Link handles POST /api/v1/scan/link
func (h *ScanHandler) Link(w http.ResponseWriter, r *http.Request) {
	var req ScanLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	assessment := h.links.Scan(req.URL)

	h.logger.Info().
		Int("score", assessment.Score).
		Str("level", string(assessment.Level)).
		Msg("link scanned")

	h.respondJSON(w, http.StatusOK, assessment)
}

// Email handles POST /api/v1/scan/email
func (h *ScanHandler) Email(w http.ResponseWriter, r *http.Request) {
	var req ScanEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		h.respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	assessment := h.emails.Scan(req.Content)

	h.logger.Info().
		Int("score", assessment.Score).
		Str("level", string(assessment.Level)).
		Msg("email scanned")

	h.respondJSON(w, http.StatusOK, assessment)
}

// Logs handles POST /api/v1/scan/logs
func (h *ScanHandler) Logs(w http.ResponseWriter, r *http.Request) {
	var req ScanLogsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Source == "" {
		req.Source = "upload"
	}

	assessment := h.logs.Scan(req.Source, req.Content)

	h.logger.Info().
		Int("score", assessment.Score).
		Str("level", string(assessment.Level)).
		Int("suspicious_ips", len(assessment.SuspiciousIPs)).
		Msg("logs scanned")

	h.respondJSON(w, http.StatusOK, assessment)
}

func (h *ScanHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ScanHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
