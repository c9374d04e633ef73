package driven

import (
	"context"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// Normaliser turns the bytes of one document format into plain text.
// Each normaliser handles specific MIME types (e.g., PDF, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers return 50-89, fallbacks 1-9.
	Priority() int

	// Normalise extracts the document's text. Corrupt input wraps domain.ErrParse.
	Normalise(ctx context.Context, raw *domain.RawDocument) (string, error)
}
