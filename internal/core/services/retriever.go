package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docu-cli/internal/logger"
)

// Readiness poll defaults.
const (
	DefaultReadyInterval = time.Second
	DefaultReadyAttempts = 30
)

// errNotReady marks a readiness check that should be retried.
var errNotReady = errors.New("index not ready")

// Retriever returns the chunk texts most similar to a query vector.
type Retriever struct {
	index    driven.VectorIndex
	interval time.Duration
	attempts int
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithReadyInterval sets the delay between readiness checks.
func WithReadyInterval(d time.Duration) RetrieverOption {
	return func(r *Retriever) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithReadyAttempts sets how many readiness checks are made before the
// query proceeds regardless. Zero skips the check.
func WithReadyAttempts(n int) RetrieverOption {
	return func(r *Retriever) {
		if n >= 0 {
			r.attempts = n
		}
	}
}

// NewRetriever creates a retriever over the given index.
func NewRetriever(index driven.VectorIndex, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		index:    index,
		interval: DefaultReadyInterval,
		attempts: DefaultReadyAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns up to topK chunk texts in backend order, best match first.
// It waits for the index to hold at least one vector first, but an index that
// never becomes ready still gets queried.
func (r *Retriever) Retrieve(ctx context.Context, indexName string, vector []float32, topK int) ([]string, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidParameter, topK)
	}

	if err := r.WaitReady(ctx, indexName); err != nil {
		return nil, err
	}

	matches, err := r.index.Query(ctx, indexName, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query index %q: %w", indexName, err)
	}
	logger.Debug("Retrieved %d/%d matches from %s", len(matches), topK, indexName)

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text())
	}
	return texts, nil
}

// WaitReady polls index stats until at least one vector is present.
// Zero vectors and a missing index are retried; any other stats error is
// returned at once. Running out of attempts is not an error.
func (r *Retriever) WaitReady(ctx context.Context, indexName string) error {
	if r.attempts == 0 {
		return nil
	}

	b := retry.NewConstant(r.interval)
	b = retry.WithMaxRetries(uint64(r.attempts-1), b)
	b = retry.WithMaxDuration(r.interval*time.Duration(r.attempts), b)

	checks := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		checks++
		stats, err := r.index.Stats(ctx, indexName)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return retry.RetryableError(errNotReady)
		case err != nil:
			return err
		case !stats.Ready():
			return retry.RetryableError(errNotReady)
		}
		return nil
	})

	switch {
	case err == nil:
		logger.Debug("Index %s ready after %d check(s)", indexName, checks)
		return nil
	case errors.Is(err, errNotReady):
		logger.Warn("index %s still empty after %d checks, querying anyway", indexName, checks)
		return nil
	default:
		return fmt.Errorf("check index %q readiness: %w", indexName, err)
	}
}
