package filesystem

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

func TestStore_Upload(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := filepath.FromSlash("/data/docu")
	store, err := NewStore(fs, root)
	require.NoError(t, err)

	u, err := store.Upload(context.Background(), "lease-agreement.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	path := filepath.Join(root, "lease-agreement.pdf")
	assert.Equal(t, "file://"+filepath.ToSlash(path), u)
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestStore_UploadOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewStore(fs, "/docs")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Upload(ctx, "a.txt", "text/plain", []byte("first"))
	require.NoError(t, err)
	_, err = store.Upload(ctx, "a.txt", "text/plain", []byte("second"))
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, filepath.Join("/docs", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStore_UploadNestedKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewStore(fs, "/docs")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "2025/lease.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)

	exists, err := afero.Exists(fs, filepath.Join("/docs", "2025", "lease.pdf"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_UploadRejectsEscapingKeys(t *testing.T) {
	store, err := NewStore(afero.NewMemMapFs(), "/docs")
	require.NoError(t, err)

	for _, key := range []string{"", "../secret", "/etc/passwd", "a/../../b"} {
		_, err := store.Upload(context.Background(), key, "", []byte("x"))
		assert.ErrorIs(t, err, domain.ErrInvalidParameter, "key %q", key)
	}
}

func TestStore_UploadReadOnlyFs(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/docs", 0o700))
	store, err := NewStore(afero.NewReadOnlyFs(base), "/docs")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "a.txt", "text/plain", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrService)
	assert.Equal(t, "/docs", store.Root())
}
