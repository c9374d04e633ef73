package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is an in-memory implementation of driven.ConversationStore.
// Records are copied on the way in and out so callers never share history slices.
type ConversationStore struct {
	mu      sync.RWMutex
	records map[string]domain.Conversation
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		records: make(map[string]domain.Conversation),
	}
}

// Load retrieves a conversation by document ID.
func (s *ConversationStore) Load(_ context.Context, documentID string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.records[documentID]
	if !ok {
		return nil, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, documentID)
	}
	conv.History = slices.Clone(conv.History)
	return &conv, nil
}

// Save replaces the conversation for conv.DocumentID.
func (s *ConversationStore) Save(_ context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *conv
	stored.History = slices.Clone(conv.History)
	s.records[conv.DocumentID] = stored
	return nil
}

// List returns all conversations, most recently updated first.
func (s *ConversationStore) List(_ context.Context) ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Conversation, 0, len(s.records))
	for _, conv := range s.records {
		conv.History = slices.Clone(conv.History)
		result = append(result, conv)
	}
	slices.SortFunc(result, func(a, b domain.Conversation) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.DocumentID, b.DocumentID)
	})
	return result, nil
}

// Close is a no-op.
func (s *ConversationStore) Close() error {
	return nil
}
