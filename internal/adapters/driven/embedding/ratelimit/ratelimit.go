// Package ratelimit wraps an embedding service with a token bucket so
// ingestion of long documents stays under a provider's request quota.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService delays Embed calls so no more than the configured number
// of requests per minute reach the wrapped service.
type EmbeddingService struct {
	next    driven.EmbeddingService
	limiter *rate.Limiter
}

// Wrap returns next unchanged when requestsPerMinute is not positive.
func Wrap(next driven.EmbeddingService, requestsPerMinute int) driven.EmbeddingService {
	if requestsPerMinute <= 0 {
		return next
	}
	burst := max(requestsPerMinute/10, 1)
	return &EmbeddingService{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst),
	}
}

// Embed waits for a token and then delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: embedding rate limit: %w", domain.ErrService, err)
	}
	return s.next.Embed(ctx, text)
}

// Dimensions delegates to the wrapped service.
func (s *EmbeddingService) Dimensions() int { return s.next.Dimensions() }

// ModelName delegates to the wrapped service.
func (s *EmbeddingService) ModelName() string { return s.next.ModelName() }

// Ping is not rate limited.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.next.Ping(ctx) }

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error { return s.next.Close() }
