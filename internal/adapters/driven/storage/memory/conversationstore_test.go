package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

func TestConversationStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()
	conv := &domain.Conversation{
		DocumentID:   "doc-1",
		DocumentName: "Lease Agreement",
		IndexName:    "lease-agreement",
		History: []domain.Message{
			{Role: domain.RoleUser, Content: "q"},
			{Role: domain.RoleAssistant, Content: "a"},
		},
	}

	require.NoError(t, store.Save(ctx, conv))
	loaded, err := store.Load(ctx, "doc-1")

	require.NoError(t, err)
	assert.Equal(t, conv, loaded)
}

func TestConversationStore_LoadNotFound(t *testing.T) {
	_, err := NewConversationStore().Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestConversationStore_SaveReplaces(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	conv := &domain.Conversation{DocumentID: "doc-1", History: []domain.Message{{Role: domain.RoleUser, Content: "old"}}}
	require.NoError(t, store.Save(ctx, conv))
	conv.History = nil
	require.NoError(t, store.Save(ctx, conv))

	loaded, err := store.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.History)
}

func TestConversationStore_Isolation(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()
	conv := &domain.Conversation{DocumentID: "doc-1"}
	conv.AppendTurn("q", "a")
	require.NoError(t, store.Save(ctx, conv))

	loaded, _ := store.Load(ctx, "doc-1")
	loaded.AppendTurn("q2", "a2")
	conv.History[0].Content = "mutated"

	again, _ := store.Load(ctx, "doc-1")
	assert.Len(t, again.History, 2)
	assert.Equal(t, "q", again.History[0].Content)
}

func TestConversationStore_ListOrder(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, &domain.Conversation{DocumentID: "old", UpdatedAt: base}))
	require.NoError(t, store.Save(ctx, &domain.Conversation{DocumentID: "new", UpdatedAt: base.Add(time.Hour)}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].DocumentID)
	assert.Equal(t, "old", list[1].DocumentID)
	assert.NoError(t, store.Close())
}
