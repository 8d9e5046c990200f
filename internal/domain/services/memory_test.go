package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"aegis-gateway/internal/domain/models"
)

func TestNormalizeUserID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"telegram_Alice123", "user_alice123"},
		{"web_alice123", "user_alice123"},
		{"mobile_ALICE123", "user_alice123"},
		{"api_alice123", "user_alice123"},
		{"alice123", "user_alice123"},
		{"telegram_web_x", "user_web_x"}, // only one prefix is stripped
	}

	for _, tt := range tests {
		if got := NormalizeUserID(tt.in); got != tt.want {
			t.Errorf("NormalizeUserID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMemorySharedAcrossPlatforms(t *testing.T) {
	m := NewMemory(NewInMemoryContextStore(), 20, testLogger())
	ctx := context.Background()

	if err := m.SaveTurn(ctx, "telegram_bob", "hello", "hi!", "telegram", models.IntentGreeting); err != nil {
		t.Fatalf("SaveTurn: %v", err)
	}

	stats := m.Stats(ctx, "web_bob")
	if stats.Entries != 2 {
		t.Errorf("entries = %d, want 2 (one user/assistant pair)", stats.Entries)
	}
	if stats.UserID != "user_bob" {
		t.Errorf("user id = %q, want user_bob", stats.UserID)
	}
	if stats.LastIntent != models.IntentGreeting {
		t.Errorf("last intent = %s, want greeting", stats.LastIntent)
	}
}

func TestMemoryConcurrentSaveTurnsSameUser(t *testing.T) {
	m := NewMemory(NewInMemoryContextStore(), 200, testLogger())
	ctx := context.Background()

	// The same normalized user hit from every platform at once; the
	// per-user lock must not lose any entries.
	platforms := []string{"telegram_dave", "web_dave", "mobile_dave", "api_dave", "dave"}
	const turnsPerWorker = 8

	var wg sync.WaitGroup
	for _, id := range platforms {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			for i := 0; i < turnsPerWorker; i++ {
				if err := m.SaveTurn(ctx, userID, "ping", "pong", "web", models.IntentGeneralChat); err != nil {
					t.Errorf("SaveTurn(%s): %v", userID, err)
				}
			}
		}(id)
	}
	wg.Wait()

	stats := m.Stats(ctx, "dave")
	want := len(platforms) * turnsPerWorker * 2
	if stats.Entries != want {
		t.Errorf("entries = %d, want %d (no lost turns)", stats.Entries, want)
	}
}

func TestMemoryTrimProducesSummary(t *testing.T) {
	m := NewMemory(NewInMemoryContextStore(), 20, testLogger())
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		msg := fmt.Sprintf("message number %d", i)
		if err := m.SaveTurn(ctx, "carol", msg, "reply", "web", models.IntentGeneralChat); err != nil {
			t.Fatalf("SaveTurn %d: %v", i, err)
		}
	}

	stats := m.Stats(ctx, "carol")
	if stats.Entries > 20 {
		t.Errorf("entries = %d, want <= 20 after trim", stats.Entries)
	}
	if !stats.HasSummary {
		t.Error("expected a summary after trimming")
	}

	contextStr := m.ContextString(ctx, "carol", 3)
	if !strings.Contains(contextStr, "Previous Summary:") {
		t.Errorf("context missing summary line:\n%s", contextStr)
	}
	// 3 turns = 6 entries plus the summary line
	if lines := strings.Split(contextStr, "\n"); len(lines) != 7 {
		t.Errorf("context has %d lines, want 7", len(lines))
	}
}

func TestMemoryContextStringRoles(t *testing.T) {
	m := NewMemory(NewInMemoryContextStore(), 20, testLogger())
	ctx := context.Background()

	if err := m.SaveTurn(ctx, "dave", "is this safe?", "Looks fine.", "web", models.IntentScanLink); err != nil {
		t.Fatalf("SaveTurn: %v", err)
	}

	got := m.ContextString(ctx, "dave", 3)
	want := "User: is this safe?\nAegis: Looks fine."
	if got != want {
		t.Errorf("ContextString = %q, want %q", got, want)
	}
}

func TestMemoryContextStringEmpty(t *testing.T) {
	m := NewMemory(NewInMemoryContextStore(), 20, testLogger())

	if got := m.ContextString(context.Background(), "nobody", 3); got != "" {
		t.Errorf("ContextString for unknown user = %q, want empty", got)
	}
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory(NewInMemoryContextStore(), 20, testLogger())
	ctx := context.Background()

	if err := m.SaveTurn(ctx, "erin", "hi", "hello", "web", models.IntentGreeting); err != nil {
		t.Fatalf("SaveTurn: %v", err)
	}
	if err := m.Clear(ctx, "erin"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if stats := m.Stats(ctx, "erin"); stats.Entries != 0 {
		t.Errorf("entries after clear = %d, want 0", stats.Entries)
	}
}

// failingStore simulates corrupt stored state
type failingStore struct {
	*InMemoryContextStore
	failGet bool
}

func (s *failingStore) Get(ctx context.Context, userID string) (*models.ConversationContext, error) {
	if s.failGet {
		return nil, errors.New("corrupt payload")
	}
	return s.InMemoryContextStore.Get(ctx, userID)
}

func TestMemoryCorruptStateResets(t *testing.T) {
	store := &failingStore{InMemoryContextStore: NewInMemoryContextStore(), failGet: true}
	m := NewMemory(store, 20, testLogger())
	ctx := context.Background()

	// Unreadable state must not fail the turn
	if err := m.SaveTurn(ctx, "frank", "hi", "hello", "web", models.IntentGreeting); err != nil {
		t.Fatalf("SaveTurn with corrupt store: %v", err)
	}

	store.failGet = false
	if stats := m.Stats(ctx, "frank"); stats.Entries != 2 {
		t.Errorf("entries = %d, want 2", stats.Entries)
	}
}
