package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testConversation(id string, updated time.Time) *domain.Conversation {
	return &domain.Conversation{
		DocumentID:   id,
		DocumentName: "Lease Agreement",
		IndexName:    "lease-agreement",
		ObjectURL:    "https://storage.googleapis.com/docupdfs/lease-agreement.pdf",
		ChunkCount:   3,
		History: []domain.Message{
			{Role: domain.RoleUser, Content: "What is the notice period?"},
			{Role: domain.RoleAssistant, Content: "Thirty days."},
		},
		CreatedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "conversations.db"), store.Path())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, testConversation("doc-1", now)))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	conv, err := store.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, conv.History, 2)

	var applied int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied, "migrations are recorded once")
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.UTC)
	conv := testConversation("doc-1", now)

	require.NoError(t, store.Save(ctx, conv))
	loaded, err := store.Load(ctx, "doc-1")

	require.NoError(t, err)
	assert.Equal(t, conv.DocumentID, loaded.DocumentID)
	assert.Equal(t, conv.DocumentName, loaded.DocumentName)
	assert.Equal(t, conv.IndexName, loaded.IndexName)
	assert.Equal(t, conv.ObjectURL, loaded.ObjectURL)
	assert.Equal(t, conv.ChunkCount, loaded.ChunkCount)
	assert.Equal(t, conv.History, loaded.History)
	assert.True(t, conv.CreatedAt.Equal(loaded.CreatedAt))
	assert.True(t, conv.UpdatedAt.Equal(loaded.UpdatedAt))
}

func TestStore_LoadNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Load(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestStore_LoadCorruptTimestamp(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testConversation("doc-1", time.Now().UTC())))
	_, err := store.db.ExecContext(ctx, "UPDATE conversations SET updated_at = 'yesterday' WHERE document_id = ?", "doc-1")
	require.NoError(t, err)

	_, err = store.Load(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.NotErrorIs(t, err, domain.ErrService)

	_, err = store.List(ctx)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestStore_SaveReplacesHistory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	conv := testConversation("doc-1", time.Now())
	require.NoError(t, store.Save(ctx, conv))

	conv.AppendTurn("Who pays utilities?", "The tenant.")
	require.NoError(t, store.Save(ctx, conv))

	loaded, err := store.Load(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, loaded.History, 4)
	assert.Equal(t, "The tenant.", loaded.History[3].Content)

	conv.History = nil
	require.NoError(t, store.Save(ctx, conv))
	loaded, err = store.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.History)
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.Save(ctx, testConversation("older", base)))
	require.NoError(t, store.Save(ctx, testConversation("newer", base.Add(90*time.Minute))))
	require.NoError(t, store.Save(ctx, testConversation("middle", base.Add(500*time.Millisecond))))

	list, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "newer", list[0].DocumentID)
	assert.Equal(t, "middle", list[1].DocumentID)
	assert.Equal(t, "older", list[2].DocumentID)
}

func TestStore_CancelledContext(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, testConversation("doc-1", time.Now()))

	assert.ErrorIs(t, err, domain.ErrService)
}

func TestMigrations_Embedded(t *testing.T) {
	content, err := migrations.FS.ReadFile("001_conversations.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS conversations")
}
