package gcs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

type bufferWriter struct {
	bytes.Buffer
	writeErr error
	closeErr error
	closed   bool
}

func (w *bufferWriter) Write(p []byte) (int, error) {
	if w.writeErr != nil {
		return 0, w.writeErr
	}
	return w.Buffer.Write(p)
}

func (w *bufferWriter) Close() error {
	w.closed = true
	return w.closeErr
}

func newTestStore(w *bufferWriter, gotKey, gotType *string) *Store {
	return &Store{
		bucket:  "docupdfs",
		baseURL: PublicHost,
		open: func(_ context.Context, key, contentType string) io.WriteCloser {
			*gotKey = key
			*gotType = contentType
			return w
		},
	}
}

func TestNewStore_RequiresBucket(t *testing.T) {
	_, err := NewStore(context.Background(), Config{})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestStore_Upload(t *testing.T) {
	w := &bufferWriter{}
	var key, contentType string
	s := newTestStore(w, &key, &contentType)

	u, err := s.Upload(context.Background(), "lease-agreement.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "https://storage.googleapis.com/docupdfs/lease-agreement.pdf", u)
	assert.Equal(t, "lease-agreement.pdf", key)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, "%PDF-1.4", w.String())
	assert.True(t, w.closed)
}

func TestStore_UploadWriteError(t *testing.T) {
	w := &bufferWriter{writeErr: errors.New("broken pipe")}
	var key, contentType string
	s := newTestStore(w, &key, &contentType)

	_, err := s.Upload(context.Background(), "a.pdf", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrService)
	assert.Contains(t, err.Error(), "gs://docupdfs/a.pdf")
	assert.True(t, w.closed)
}

func TestStore_UploadCloseError(t *testing.T) {
	w := &bufferWriter{closeErr: errors.New("403 forbidden")}
	var key, contentType string
	s := newTestStore(w, &key, &contentType)

	_, err := s.Upload(context.Background(), "a.pdf", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrService)
}

func TestStore_UploadEmptyKey(t *testing.T) {
	w := &bufferWriter{}
	var key, contentType string
	s := newTestStore(w, &key, &contentType)

	_, err := s.Upload(context.Background(), "", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/b/dir/my%20file.pdf",
		objectURL(PublicHost, "b", "dir/my file.pdf"))
	assert.Equal(t, "http://localhost:4443/b/k.pdf", objectURL("http://localhost:4443", "b", "k.pdf"))
}

func TestStore_CloseWithoutClient(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}
