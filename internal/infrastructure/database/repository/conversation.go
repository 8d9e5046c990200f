package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"aegis-gateway/internal/domain/models"
	"aegis-gateway/internal/infrastructure/database"
	"aegis-gateway/pkg/logger"
)

// ConversationRepository persists conversation contexts in PostgreSQL.
// It satisfies the services.ContextStore interface.
type ConversationRepository struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *database.PostgresDB, log *logger.Logger) *ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: log.WithComponent("conversation-repo"),
	}
}

// Get returns the stored context for a user, or (nil, nil) when none exists.
func (r *ConversationRepository) Get(ctx context.Context, userID string) (*models.ConversationContext, error) {
	const query = `SELECT context FROM conversations WHERE user_id = $1`

	var raw []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load conversation %s: %w", userID, err)
	}

	var cc models.ConversationContext
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, fmt.Errorf("failed to decode conversation %s: %w", userID, err)
	}
	return &cc, nil
}

// Put upserts the conversation context for a user.
func (r *ConversationRepository) Put(ctx context.Context, userID string, cc *models.ConversationContext) error {
	const query = `
INSERT INTO conversations (user_id, platform, context, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
	platform   = EXCLUDED.platform,
	context    = EXCLUDED.context,
	updated_at = EXCLUDED.updated_at`

	raw, err := json.Marshal(cc)
	if err != nil {
		return fmt.Errorf("failed to encode conversation %s: %w", userID, err)
	}

	if err := r.db.Exec(ctx, query, userID, cc.Platform, raw, cc.CreatedAt, time.Now()); err != nil {
		return fmt.Errorf("failed to save conversation %s: %w", userID, err)
	}
	return nil
}

// Delete removes the conversation context for a user.
func (r *ConversationRepository) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM conversations WHERE user_id = $1`

	if err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete conversation %s: %w", userID, err)
	}
	return nil
}
