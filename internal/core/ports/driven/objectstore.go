package driven

import "context"

// ObjectStore uploads raw documents at ingestion time.
type ObjectStore interface {
	// Upload stores data under key and returns a URL for it.
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Close releases resources.
	Close() error
}
