package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"aegis-gateway/internal/domain/models"
	"aegis-gateway/pkg/logger"
)

// ContextStore persists conversation contexts keyed by normalized
// user ID. Get returns (nil, nil) when no context exists.
type ContextStore interface {
	Get(ctx context.Context, userID string) (*models.ConversationContext, error)
	Put(ctx context.Context, userID string, conversation *models.ConversationContext) error
	Delete(ctx context.Context, userID string) error
}

// platformPrefixes are stripped during user ID normalization so the
// same person shares one memory across platforms
var platformPrefixes = []string{"telegram_", "web_", "mobile_", "api_"}

// NormalizeUserID unifies a platform-specific user ID: strip one
// known platform prefix, lowercase, prepend "user_"
func NormalizeUserID(userID string) string {
	for _, prefix := range platformPrefixes {
		if strings.HasPrefix(userID, prefix) {
			userID = userID[len(prefix):]
			break
		}
	}
	return "user_" + strings.ToLower(userID)
}

// Memory is the cross-platform conversation memory service. Turns for
// one user are serialized; different users proceed concurrently.
type Memory struct {
	store      ContextStore
	maxEntries int
	logger     *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMemory creates a memory service over the given store
func NewMemory(store ContextStore, maxEntries int, log *logger.Logger) *Memory {
	if maxEntries <= 0 {
		maxEntries = 20
	}
	return &Memory{
		store:      store,
		maxEntries: maxEntries,
		logger:     log.WithComponent("memory"),
		locks:      make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing one user's turns
func (m *Memory) userLock(normalizedID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[normalizedID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[normalizedID] = lock
	}
	return lock
}

// LoadOrCreate fetches the user's context, creating an empty one if
// none exists. Corrupt stored state resets to empty rather than
// failing the turn.
func (m *Memory) LoadOrCreate(ctx context.Context, userID, platform string) *models.ConversationContext {
	normalized := NormalizeUserID(userID)

	conversation, err := m.store.Get(ctx, normalized)
	if err != nil {
		m.logger.Warn().Err(err).Str("user_id", normalized).Msg("stored context unreadable, resetting")
		conversation = nil
	}
	if conversation == nil {
		now := time.Now().UTC()
		conversation = &models.ConversationContext{
			UserID:    normalized,
			Platform:  platform,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	if platform != "" {
		conversation.Platform = platform
	}
	return conversation
}

// SaveTurn appends one user/assistant exchange and trims the entry
// list when it grows past the configured maximum
func (m *Memory) SaveTurn(ctx context.Context, userID, userText, assistantText, platform string, intent models.Intent) error {
	normalized := NormalizeUserID(userID)
	lock := m.userLock(normalized)
	lock.Lock()
	defer lock.Unlock()

	conversation := m.LoadOrCreate(ctx, userID, platform)
	now := time.Now().UTC()

	conversation.Entries = append(conversation.Entries,
		models.ConversationEntry{
			Role:      models.RoleUser,
			Content:   userText,
			Intent:    intent,
			Timestamp: now,
		},
		models.ConversationEntry{
			Role:      models.RoleAssistant,
			Content:   assistantText,
			Intent:    intent,
			Timestamp: now,
		},
	)
	conversation.UpdatedAt = now

	if len(conversation.Entries) > m.maxEntries {
		m.trim(conversation)
	}

	if err := m.store.Put(ctx, normalized, conversation); err != nil {
		return fmt.Errorf("failed to persist conversation: %w", err)
	}

	m.logger.Debug().
		Str("user_id", normalized).
		Int("entries", len(conversation.Entries)).
		Msg("turn saved")
	return nil
}

// trim drops the oldest excess entries and folds them into the
// summary. The summary keeps the last 5 folded entries as
// "[intent] first-50-chars" fragments.
func (m *Memory) trim(conversation *models.ConversationContext) {
	old := conversation.Entries[:len(conversation.Entries)-m.maxEntries]
	conversation.Entries = conversation.Entries[len(conversation.Entries)-m.maxEntries:]

	var parts []string
	for _, entry := range old {
		if entry.Intent == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", entry.Intent, clip(entry.Content, 50)))
	}
	if len(parts) > 5 {
		parts = parts[len(parts)-5:]
	}
	if len(parts) > 0 {
		conversation.Summary = "Earlier: " + strings.Join(parts, "; ")
	}
}

// ContextString renders the recent conversation as a plain-text block
// for provider prompts, newest entries last
func (m *Memory) ContextString(ctx context.Context, userID string, maxTurns int) string {
	conversation := m.LoadOrCreate(ctx, userID, "")
	if len(conversation.Entries) == 0 {
		return ""
	}

	var parts []string
	if conversation.Summary != "" {
		parts = append(parts, "Previous Summary: "+conversation.Summary)
	}

	recent := conversation.Entries
	if n := maxTurns * 2; len(recent) > n {
		recent = recent[len(recent)-n:]
	}
	for _, entry := range recent {
		role := "User"
		if entry.Role == models.RoleAssistant {
			role = "Aegis"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", role, clip(entry.Content, 200)))
	}

	return strings.Join(parts, "\n")
}

// Clear wipes the user's stored context
func (m *Memory) Clear(ctx context.Context, userID string) error {
	normalized := NormalizeUserID(userID)
	lock := m.userLock(normalized)
	lock.Lock()
	defer lock.Unlock()

	if err := m.store.Delete(ctx, normalized); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	m.logger.Info().Str("user_id", normalized).Msg("memory cleared")
	return nil
}

// Stats reports the user's stored conversation state
func (m *Memory) Stats(ctx context.Context, userID string) models.MemoryStats {
	conversation := m.LoadOrCreate(ctx, userID, "")
	return models.MemoryStats{
		UserID:     conversation.UserID,
		Entries:    len(conversation.Entries),
		HasSummary: conversation.Summary != "",
		LastIntent: conversation.LastIntent(),
		Platform:   conversation.Platform,
		CreatedAt:  conversation.CreatedAt,
		UpdatedAt:  conversation.UpdatedAt,
	}
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
