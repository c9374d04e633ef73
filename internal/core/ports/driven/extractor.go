package driven

import (
	"context"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// Extractor pulls plain text out of a source document.
// Unreadable input wraps domain.ErrIO, corrupt input wraps domain.ErrParse.
type Extractor interface {
	// Extract reads and parses the file at path.
	Extract(ctx context.Context, path string) (*domain.ExtractedDocument, error)

	// ExtractBytes parses an in-memory document; name supplies the extension.
	ExtractBytes(ctx context.Context, name string, data []byte) (*domain.ExtractedDocument, error)

	// Supports reports whether the file extension can be extracted.
	Supports(path string) bool
}
