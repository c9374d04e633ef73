// Package plaintext extracts text documents as-is.
package plaintext

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/yaml",
		"text/markdown",
		"text/html",
		"application/json",
		"application/xml",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise returns the content as text. Invalid UTF-8 sequences are
// replaced and a leading byte order mark is dropped.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", fmt.Errorf("%w: nil document", domain.ErrInvalidParameter)
	}
	content := strings.ToValidUTF8(string(raw.Content), "\uFFFD")
	content = strings.TrimPrefix(content, "\uFEFF")
	return content, nil
}
