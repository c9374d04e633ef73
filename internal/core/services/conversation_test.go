package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

func TestConversationService_Get(t *testing.T) {
	store := memory.NewConversationStore()
	require.NoError(t, store.Save(context.Background(), &domain.Conversation{
		DocumentID:   "doc-1",
		DocumentName: "Lease Agreement",
	}))
	svc := NewConversationService(store)

	conv, err := svc.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Lease Agreement", conv.DocumentName)

	_, err = svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestConversationService_List(t *testing.T) {
	store := memory.NewConversationStore()
	svc := NewConversationService(store)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.Save(context.Background(), &domain.Conversation{DocumentID: "doc-1"}))
	list, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
