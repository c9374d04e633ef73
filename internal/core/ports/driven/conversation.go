package driven

import (
	"context"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// ConversationStore persists one record per document.
// Save is a full replace; concurrent writers for the same document
// are last-write-wins.
type ConversationStore interface {
	// Load returns the record for the document or domain.ErrNotFound.
	Load(ctx context.Context, documentID string) (*domain.Conversation, error)

	// Save replaces the record for conv.DocumentID.
	Save(ctx context.Context, conv *domain.Conversation) error

	// List returns every record, most recently updated first.
	List(ctx context.Context) ([]domain.Conversation, error)

	// Close releases resources.
	Close() error
}
