package normalisers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

type stubNormaliser struct {
	types    []string
	priority int
	text     string
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.types }
func (s *stubNormaliser) Priority() int                { return s.priority }
func (s *stubNormaliser) Normalise(_ context.Context, _ *domain.RawDocument) (string, error) {
	return s.text, nil
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want string
	}{
		{"pdf by extension", "lease.PDF", nil, "application/pdf"},
		{"pdf by magic", "upload.bin", []byte("%PDF-1.7\n"), "application/pdf"},
		{"markdown", "notes.md", nil, "text/markdown"},
		{"plain text", "terms.txt", nil, "text/plain"},
		{"html", "page.html", nil, "text/html"},
		{"docx", "contract.docx", []byte("PK\x03\x04"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"no extension", "README", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMIMEType(tt.file, tt.data))
		})
	}
}

func TestRegistry_PriorityWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{types: []string{"text/html"}, priority: 5, text: "fallback"})
	r.Register(&stubNormaliser{types: []string{"text/html"}, priority: 50, text: "specific"})

	text, err := r.Normalise(context.Background(), &domain.RawDocument{URI: "a.html", MIMEType: "text/html"})

	require.NoError(t, err)
	assert.Equal(t, "specific", text)
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.ExtractBytes(context.Background(), "photo.png", []byte{0x89, 'P', 'N', 'G'})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.False(t, r.Supports("photo.png"))
	assert.True(t, r.Supports("lease.pdf"))
	assert.True(t, r.Supports("notes.md"))
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	types := NewDefaultRegistry().SupportedMIMETypes()

	assert.Contains(t, types, "application/pdf")
	assert.Contains(t, types, "text/markdown")
	assert.Contains(t, types, "text/plain")
	assert.IsIncreasing(t, types)
}

func TestRegistry_Extract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Service Agreement.txt")
	require.NoError(t, os.WriteFile(path, []byte("The provider shall deliver.\n"), 0o600))

	doc, err := NewDefaultRegistry().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Service Agreement", doc.Name)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "text/plain", doc.MimeType)
	assert.Contains(t, doc.Text, "provider shall deliver")
	assert.NotEmpty(t, doc.Raw)
}

func TestRegistry_ExtractMissingFile(t *testing.T) {
	_, err := NewDefaultRegistry().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestRegistry_ExtractEmpty(t *testing.T) {
	_, err := NewDefaultRegistry().ExtractBytes(context.Background(), "empty.txt", nil)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestRegistry_ExtractBytesKeepsFileName(t *testing.T) {
	doc, err := NewDefaultRegistry().ExtractBytes(context.Background(), "Lease Agreement.txt", []byte("rent is due monthly"))

	require.NoError(t, err)
	assert.Equal(t, "Lease Agreement.txt", doc.Path)
	assert.Equal(t, "Lease Agreement", doc.Name)
}
