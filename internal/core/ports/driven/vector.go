package driven

import (
	"context"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// VectorIndex stores and searches chunk vectors, one named index per document.
// Index names must already satisfy backend constraints (see services.Slugify).
type VectorIndex interface {
	// Create makes the named index if it does not exist. Creating an
	// existing index is not an error.
	Create(ctx context.Context, name string, dimension int, metric domain.Metric) error

	// Upsert writes entries keyed by ID, overwriting any with the same ID.
	Upsert(ctx context.Context, name string, entries []domain.IndexEntry) error

	// Query returns up to topK matches, best first, with metadata.
	Query(ctx context.Context, name string, vector []float32, topK int) ([]domain.Match, error)

	// Stats reports the vector count. A missing index wraps domain.ErrNotFound.
	Stats(ctx context.Context, name string) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}
