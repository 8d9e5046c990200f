package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"aegis-gateway/internal/config"
	"aegis-gateway/internal/domain/models"
	"aegis-gateway/internal/domain/services/ai"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	log := testLogger()
	links := NewLinkScanner(config.LinkScannerConfig{}, log)
	chain := ai.NewChain(nil, ai.ChainOptions{}, log)
	return NewGateway(
		NewIntentClassifier(log),
		links,
		NewEmailScanner(links, log),
		NewLogScanner(config.LogScannerConfig{}, log),
		chain,
		NewMemory(NewInMemoryContextStore(), 20, log),
		NewResponseBuilder(log),
		log,
	)
}

func TestGatewayGreeting(t *testing.T) {
	g := newTestGateway(t)

	resp, err := g.Process(context.Background(), "web_alice", "hello", "web", map[string]any{"username": "Alice"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Intent != models.IntentGreeting {
		t.Errorf("intent = %s, want greeting", resp.Intent)
	}
	if resp.ID == uuid.Nil {
		t.Error("response ID not set")
	}
	if !strings.Contains(resp.Text, "Alice") {
		t.Errorf("greeting does not address user: %q", resp.Text)
	}
}

func TestGatewayLinkScanFlow(t *testing.T) {
	g := newTestGateway(t)

	resp, err := g.Process(context.Background(), "alice", "is http://amaz0n-secure-payment.xyz/verify safe?", "telegram", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Intent != models.IntentScanLink {
		t.Fatalf("intent = %s, want scan_link", resp.Intent)
	}
	if !strings.Contains(resp.Text, "CRITICAL") {
		t.Errorf("expected critical risk in response:\n%s", resp.Text)
	}
	if _, ok := resp.Metadata["scan_result"]; !ok {
		t.Error("scan_result metadata missing")
	}
}

func TestGatewayScanIntentWithoutURL(t *testing.T) {
	g := newTestGateway(t)

	resp, _ := g.Process(context.Background(), "alice", "can you scan this link", "web", nil)
	if resp.Intent != models.IntentScanLink {
		t.Fatalf("intent = %s, want scan_link", resp.Intent)
	}
	if !strings.Contains(resp.Text, "Please provide a URL to scan") {
		t.Errorf("expected URL prompt, got %q", resp.Text)
	}
}

func TestGatewayPersistsEveryTurn(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	g.Process(ctx, "telegram_bob", "hello", "telegram", nil)
	g.Process(ctx, "web_bob", "what is phishing?", "web", nil)

	stats := g.memory.Stats(ctx, "bob")
	if stats.Entries != 4 {
		t.Errorf("entries = %d, want 4 across platforms", stats.Entries)
	}
}

func TestGatewayStats(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	g.Process(ctx, "alice", "hello", "web", nil)
	g.Process(ctx, "alice", "check http://example.com/login", "web", nil)

	stats := g.Stats()
	if stats.Messages != 2 {
		t.Errorf("messages = %d, want 2", stats.Messages)
	}
	if stats.Scans != 1 {
		t.Errorf("scans = %d, want 1", stats.Scans)
	}
	if stats.ByIntent[models.IntentGreeting] != 1 {
		t.Errorf("greeting count = %d, want 1", stats.ByIntent[models.IntentGreeting])
	}
	if stats.ByIntent[models.IntentScanLink] != 1 {
		t.Errorf("scan_link count = %d, want 1", stats.ByIntent[models.IntentScanLink])
	}
}

func TestGatewayStatusAndHelp(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	resp, _ := g.Process(ctx, "alice", "status", "web", nil)
	if resp.Intent != models.IntentStatusCheck {
		t.Errorf("intent = %s, want status_check", resp.Intent)
	}
	if !strings.Contains(resp.Text, "local") {
		t.Errorf("status response missing provider list:\n%s", resp.Text)
	}

	resp, _ = g.Process(ctx, "alice", "help", "web", nil)
	if resp.Intent != models.IntentHelpRequest {
		t.Errorf("intent = %s, want help_request", resp.Intent)
	}
}

func TestGatewaySecurityQuestionAnswered(t *testing.T) {
	g := newTestGateway(t)

	resp, _ := g.Process(context.Background(), "alice", "what is phishing?", "web", nil)
	if resp.Intent != models.IntentSecurityQuestion {
		t.Fatalf("intent = %s, want security_question", resp.Intent)
	}
	if resp.Text == "" {
		t.Error("empty answer")
	}
	if !strings.Contains(strings.ToLower(resp.Text), "phishing") {
		t.Errorf("answer does not cover the topic:\n%s", resp.Text)
	}
}

func TestGatewayDegradesOnPanic(t *testing.T) {
	log := testLogger()
	links := NewLinkScanner(config.LinkScannerConfig{}, log)
	// nil chain makes the chat handler panic; the gateway must degrade,
	// not crash
	g := NewGateway(
		NewIntentClassifier(log),
		links,
		NewEmailScanner(links, log),
		NewLogScanner(config.LogScannerConfig{}, log),
		nil,
		NewMemory(NewInMemoryContextStore(), 20, log),
		NewResponseBuilder(log),
		log,
	)
	ctx := context.Background()

	resp, err := g.Process(ctx, "alice", "just chatting", "web", nil)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if resp.Intent != models.IntentUnknown {
		t.Errorf("intent = %s, want unknown", resp.Intent)
	}
	if !strings.Contains(resp.Text, "encountered an issue") {
		t.Errorf("expected degraded response, got %q", resp.Text)
	}
	if g.Stats().Degraded != 1 {
		t.Errorf("degraded = %d, want 1", g.Stats().Degraded)
	}
	// The failed turn is still persisted
	if stats := g.memory.Stats(ctx, "alice"); stats.Entries != 2 {
		t.Errorf("entries = %d, want 2", stats.Entries)
	}
}
