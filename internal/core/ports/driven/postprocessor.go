package driven

import (
	"context"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// PostProcessor turns extracted document text into chunks.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process splits text into chunks whose IDs are derived from slug.
	Process(ctx context.Context, slug, text string) ([]domain.Chunk, error)
}
