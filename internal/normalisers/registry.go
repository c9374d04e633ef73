package normalisers

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docu-cli/internal/logger"
	"github.com/custodia-labs/docu-cli/internal/normalisers/docx"
	"github.com/custodia-labs/docu-cli/internal/normalisers/html"
	"github.com/custodia-labs/docu-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/docu-cli/internal/normalisers/pdf"
	"github.com/custodia-labs/docu-cli/internal/normalisers/plaintext"
)

// Verify interface compliance.
var (
	_ driven.NormaliserRegistry = (*Registry)(nil)
	_ driven.Extractor          = (*Registry)(nil)
)

// extensionTypes covers extensions the platform MIME table often lacks.
var extensionTypes = map[string]string{
	".pdf":      "application/pdf",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".htm":      "text/html",
	".html":     "text/html",
	".xhtml":    "application/xhtml+xml",
	".csv":      "text/csv",
	".json":     "application/json",
	".xml":      "application/xml",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
}

// Registry dispatches documents to normalisers by MIME type.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry returns a registry with every built-in normaliser.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(html.New())
	r.Register(markdown.New())
	r.Register(plaintext.New())
	return r
}

// Register adds a normaliser, keeping the list ordered by priority.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
	slices.SortStableFunc(r.normalisers, func(a, b driven.Normaliser) int {
		return cmp.Compare(b.Priority(), a.Priority())
	})
}

// SupportedMIMETypes returns all MIME types that can be normalised.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var types []string
	for _, n := range r.normalisers {
		for _, t := range n.SupportedMIMETypes() {
			if !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
	}
	slices.Sort(types)
	return types
}

// Normalise extracts text with the highest-priority matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", fmt.Errorf("%w: nil document", domain.ErrInvalidParameter)
	}
	n := r.find(raw.MIMEType)
	if n == nil {
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, raw.URI, raw.MIMEType)
	}
	logger.Debug("normalising %s as %s", raw.URI, raw.MIMEType)
	return n.Normalise(ctx, raw)
}

// Supports reports whether a normaliser is registered for the file's type.
func (r *Registry) Supports(path string) bool {
	return r.find(DetectMIMEType(path, nil)) != nil
}

// Extract reads the file at path and extracts its text.
func (r *Registry) Extract(ctx context.Context, path string) (*domain.ExtractedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrIO, path, err)
	}
	doc, err := r.ExtractBytes(ctx, path, data)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// ExtractBytes extracts text from an in-memory document. The name's
// extension and the content's magic bytes decide the MIME type.
func (r *Registry) ExtractBytes(ctx context.Context, name string, data []byte) (*domain.ExtractedDocument, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrParse, name)
	}
	raw := &domain.RawDocument{URI: name, MIMEType: DetectMIMEType(name, data), Content: data}
	text, err := r.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(name)
	return &domain.ExtractedDocument{
		Path:     name,
		Name:     strings.TrimSuffix(base, filepath.Ext(base)),
		MimeType: raw.MIMEType,
		Text:     text,
		Raw:      data,
	}, nil
}

func (r *Registry) find(mimeType string) driven.Normaliser {
	if mimeType == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.normalisers {
		if slices.Contains(n.SupportedMIMETypes(), mimeType) {
			return n
		}
	}
	return nil
}

// DetectMIMEType resolves a file's content type. Magic bytes win over the
// extension; charset parameters are stripped.
func DetectMIMEType(name string, data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return "application/pdf"
	case bytes.HasPrefix(data, []byte("PK\x03\x04")) && strings.EqualFold(filepath.Ext(name), ".docx"):
		return extensionTypes[".docx"]
	}

	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
