package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"aegis-gateway/internal/domain/models"
)

// ContextStore persists conversation contexts as JSON values in
// Redis. Contexts expire after the configured TTL of inactivity.
type ContextStore struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewContextStore creates a Redis-backed conversation store
func NewContextStore(cache *RedisCache, ttl time.Duration) *ContextStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ContextStore{cache: cache, ttl: ttl}
}

// Get returns the stored context, or (nil, nil) when absent
func (s *ContextStore) Get(ctx context.Context, userID string) (*models.ConversationContext, error) {
	var conversation models.ConversationContext
	err := s.cache.GetJSON(ctx, KeyConversationPrefix+userID, &conversation)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// Put stores the context and refreshes its TTL
func (s *ContextStore) Put(ctx context.Context, userID string, conversation *models.ConversationContext) error {
	return s.cache.SetJSON(ctx, KeyConversationPrefix+userID, conversation, s.ttl)
}

// Delete removes the stored context
func (s *ContextStore) Delete(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, KeyConversationPrefix+userID)
}
