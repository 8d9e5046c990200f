package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aegis-gateway/internal/config"
	"aegis-gateway/internal/domain/models"
	"aegis-gateway/internal/domain/services"
	"aegis-gateway/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func newTestScanHandler(t *testing.T) *ScanHandler {
	t.Helper()
	log := testLogger()
	links := services.NewLinkScanner(config.LinkScannerConfig{}, log)
	emails := services.NewEmailScanner(links, log)
	logs := services.NewLogScanner(config.LogScannerConfig{}, log)
	return NewScanHandler(links, emails, logs, log)
}

func TestScanLinkEndpoint(t *testing.T) {
	h := newTestScanHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan/link",
		strings.NewReader(`{"url":"http://amaz0n-secure-payment.xyz/verify"}`))
	rec := httptest.NewRecorder()

	h.Link(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var a models.RiskAssessment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if a.Level != models.RiskLevelCritical {
		t.Errorf("level = %s, want critical", a.Level)
	}
	if a.Score != 100 {
		t.Errorf("score = %d, want 100", a.Score)
	}
}

func TestScanLinkEndpointValidation(t *testing.T) {
	h := newTestScanHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing url", `{}`},
		{"bad json", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/scan/link", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Link(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestScanEmailEndpoint(t *testing.T) {
	h := newTestScanHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan/email",
		strings.NewReader(`{"content":"Dear customer, click here to verify your account immediately"}`))
	rec := httptest.NewRecorder()

	h.Email(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var a models.RiskAssessment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if a.Kind != models.ScanKindEmail {
		t.Errorf("kind = %s, want email", a.Kind)
	}
	if a.Score == 0 {
		t.Error("expected nonzero score for phishing content")
	}
}

func TestScanLogsEndpointDefaultSource(t *testing.T) {
	h := newTestScanHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan/logs",
		strings.NewReader(`{"content":"failed login from 10.0.0.8\nfailed login from 10.0.0.8"}`))
	rec := httptest.NewRecorder()

	h.Logs(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var a models.RiskAssessment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if a.Target != "upload" {
		t.Errorf("target = %q, want default source upload", a.Target)
	}
}
