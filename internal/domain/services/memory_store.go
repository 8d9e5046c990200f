package services

import (
	"context"
	"sync"

	"aegis-gateway/internal/domain/models"
)

// InMemoryContextStore keeps conversation contexts in a process-local
// map. Default store, no persistence across restarts.
type InMemoryContextStore struct {
	mu    sync.RWMutex
	items map[string]*models.ConversationContext
}

// NewInMemoryContextStore creates an empty in-process store
func NewInMemoryContextStore() *InMemoryContextStore {
	return &InMemoryContextStore{
		items: make(map[string]*models.ConversationContext),
	}
}

// Get returns a copy of the stored context, or (nil, nil) when absent
func (s *InMemoryContextStore) Get(_ context.Context, userID string) (*models.ConversationContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conversation, ok := s.items[userID]
	if !ok {
		return nil, nil
	}
	return copyContext(conversation), nil
}

// Put stores a copy of the context
func (s *InMemoryContextStore) Put(_ context.Context, userID string, conversation *models.ConversationContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = copyContext(conversation)
	return nil
}

// Delete removes the stored context, if any
func (s *InMemoryContextStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
	return nil
}

// copyContext detaches the entries slice so callers can't mutate
// stored state behind the lock
func copyContext(conversation *models.ConversationContext) *models.ConversationContext {
	clone := *conversation
	clone.Entries = make([]models.ConversationEntry, len(conversation.Entries))
	copy(clone.Entries, conversation.Entries)
	return &clone
}
