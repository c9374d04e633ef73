package driven

import (
	"context"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a document.
// It keeps normalisers ordered by priority and dispatches on MIME type.
type NormaliserRegistry interface {
	// Normalise extracts text using the best matching normaliser.
	// No match wraps domain.ErrUnsupportedType.
	Normalise(ctx context.Context, raw *domain.RawDocument) (string, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
