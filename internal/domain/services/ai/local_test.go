package ai

import (
	"context"
	"strings"
	"testing"

	"aegis-gateway/internal/domain/models"
)

func TestLocalKnowledgeBase(t *testing.T) {
	l := NewLocal(testLogger())
	ctx := context.Background()

	tests := []struct {
		name   string
		prompt string
		topic  string
	}{
		{"phishing", "what is phishing?", "Phishing"},
		{"malware", "tell me about malware please", "Malware"},
		{"password", "how do I pick a good password", "Password"},
		{"2fa", "should I enable 2fa", "Two-Factor"},
		{"ransomware", "explain ransomware", "Ransomware"},
		{"vpn", "do I need a vpn", "VPN"},
		{"social engineering", "what is social engineering", "Social Engineering"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Generate(ctx, tt.prompt, "", 0)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if !strings.Contains(got, tt.topic) {
				t.Errorf("Generate(%q) missing %q:\n%s", tt.prompt, tt.topic, got)
			}
		})
	}
}

func TestLocalQuestionFallback(t *testing.T) {
	l := NewLocal(testLogger())

	got, err := l.Generate(context.Background(), "how do birds fly?", "", 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(got, "What I can still do") {
		t.Errorf("expected question fallback, got:\n%s", got)
	}
}

func TestLocalChatFallback(t *testing.T) {
	l := NewLocal(testLogger())

	got, err := l.Generate(context.Background(), "thanks, bye!", "", 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(got, "Quick Actions") {
		t.Errorf("expected chat fallback, got:\n%s", got)
	}
}

func TestLocalAlwaysAvailable(t *testing.T) {
	l := NewLocal(testLogger())

	if !l.Available() {
		t.Error("local provider must always be available")
	}
	if l.Name() != "local" {
		t.Errorf("name = %q, want local", l.Name())
	}
}

func TestLocalExplainScanIsSilent(t *testing.T) {
	l := NewLocal(testLogger())

	a := &models.RiskAssessment{Kind: models.ScanKindEmail, Level: models.RiskLevelHigh}
	got, err := l.ExplainScan(context.Background(), models.ScanKindEmail, "", a)
	if err != nil {
		t.Fatalf("ExplainScan: %v", err)
	}
	if got != "" {
		t.Errorf("ExplainScan = %q, want empty", got)
	}
}
