package models

import "time"

// Role identifies who produced an entry in a conversation
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationEntry is a single utterance in a conversation
type ConversationEntry struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Intent    Intent    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationContext is the persisted state for one normalized user.
// Entries hold the most recent turns; older turns are folded into
// Summary when the entry list is trimmed.
type ConversationContext struct {
	UserID    string              `json:"user_id"`
	Platform  string              `json:"platform"`
	Entries   []ConversationEntry `json:"entries"`
	Summary   string              `json:"summary,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// LastIntent returns the intent of the most recent user entry
func (c *ConversationContext) LastIntent() Intent {
	for i := len(c.Entries) - 1; i >= 0; i-- {
		if c.Entries[i].Role == RoleUser {
			return c.Entries[i].Intent
		}
	}
	return IntentUnknown
}

// MemoryStats summarizes one user's stored conversation state
type MemoryStats struct {
	UserID     string    `json:"user_id"`
	Entries    int       `json:"entries"`
	HasSummary bool      `json:"has_summary"`
	LastIntent Intent    `json:"last_intent"`
	Platform   string    `json:"platform"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
