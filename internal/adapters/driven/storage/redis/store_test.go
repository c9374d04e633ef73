package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func conversation(id string, updated time.Time) *domain.Conversation {
	return &domain.Conversation{
		DocumentID:   id,
		DocumentName: "Supply Contract",
		IndexName:    "supply-contract",
		ChunkCount:   7,
		History:      []domain.Message{},
		CreatedAt:    updated,
		UpdatedAt:    updated,
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	conv := conversation("doc-1", time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC))
	conv.AppendTurn("Who is the supplier?", "Acme Ltd.")

	require.NoError(t, store.Save(ctx, conv))
	assert.True(t, mr.Exists("docu:conversation:doc-1"))

	loaded, err := store.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Supply Contract", loaded.DocumentName)
	assert.Equal(t, 7, loaded.ChunkCount)
	assert.Equal(t, conv.History, loaded.History)
	assert.True(t, conv.UpdatedAt.Equal(loaded.UpdatedAt))
}

func TestStore_LoadNotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Load(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_LoadCorruptValue(t *testing.T) {
	store, mr := setupTestStore(t)
	require.NoError(t, mr.Set("docu:conversation:bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")

	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestStore_SaveRequiresID(t *testing.T) {
	store, _ := setupTestStore(t)

	err := store.Save(context.Background(), &domain.Conversation{})

	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestStore_SaveReplaces(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	conv := conversation("doc-1", time.Now())
	require.NoError(t, store.Save(ctx, conv))

	conv.AppendTurn("q", "a")
	require.NoError(t, store.Save(ctx, conv))

	loaded, err := store.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, loaded.History, 2)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_ListOrder(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, conversation("a", base)))
	require.NoError(t, store.Save(ctx, conversation("b", base.Add(time.Hour))))
	require.NoError(t, store.Save(ctx, conversation("c", base.Add(time.Minute))))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{list[0].DocumentID, list[1].DocumentID, list[2].DocumentID})
}

func TestStore_ListEmpty(t *testing.T) {
	store, _ := setupTestStore(t)

	list, err := store.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ListSkipsDanglingIndexEntries(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, conversation("kept", time.Now())))
	_, err := mr.ZAdd("docu:conversations", 1, "gone")
	require.NoError(t, err)

	list, err := store.List(ctx)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].DocumentID)
}

func TestStore_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewStore(client, WithKeyPrefix("tenant1"))

	require.NoError(t, store.Save(context.Background(), conversation("doc-1", time.Now())))

	assert.True(t, mr.Exists("tenant1:conversation:doc-1"))
	assert.NoError(t, store.Close(), "borrowed client is not closed")
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := Open(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), conversation("doc-1", time.Now())))
	assert.NoError(t, store.Close())

	_, err = Open(context.Background(), "://bad")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}
