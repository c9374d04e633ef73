package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

// Ensure ConversationService implements the interface.
var _ driving.ConversationService = (*ConversationService)(nil)

// ConversationService exposes ingested documents and their history.
type ConversationService struct {
	store driven.ConversationStore
}

// NewConversationService creates a new conversation service.
func NewConversationService(store driven.ConversationStore) *ConversationService {
	return &ConversationService{store: store}
}

// Get returns the record for a document.
func (s *ConversationService) Get(ctx context.Context, documentID string) (*domain.Conversation, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("%w: document id is empty", domain.ErrInvalidParameter)
	}
	return s.store.Load(ctx, documentID)
}

// List returns all ingested documents.
func (s *ConversationService) List(ctx context.Context) ([]domain.Conversation, error) {
	return s.store.List(ctx)
}
