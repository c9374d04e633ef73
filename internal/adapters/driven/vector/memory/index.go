// Package memory provides an in-process vector index using brute-force search.
// It is used for offline runs and tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VectorIndex = (*Index)(nil)

type collection struct {
	dimension int
	metric    domain.Metric
	order     []string
	entries   map[string]domain.IndexEntry
}

// Index holds named collections in memory.
type Index struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{collections: make(map[string]*collection)}
}

// Create registers a named collection. Existing collections are kept.
func (x *Index) Create(_ context.Context, name string, dimension int, metric domain.Metric) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive", domain.ErrInvalidParameter)
	}
	if !metric.IsValid() {
		return fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidParameter, metric)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.collections[name]; ok {
		return nil
	}
	x.collections[name] = &collection{
		dimension: dimension,
		metric:    metric,
		entries:   make(map[string]domain.IndexEntry),
	}
	return nil
}

// Upsert stores entries, replacing any with the same id.
func (x *Index) Upsert(_ context.Context, name string, entries []domain.IndexEntry) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	c, ok := x.collections[name]
	if !ok {
		return fmt.Errorf("%w: index %s", domain.ErrNotFound, name)
	}
	for _, e := range entries {
		if len(e.Vector) != c.dimension {
			return fmt.Errorf("%w: index %s: vector %s has dimension %d, want %d",
				domain.ErrInvalidParameter, name, e.ID, len(e.Vector), c.dimension)
		}
	}
	for _, e := range entries {
		if _, exists := c.entries[e.ID]; !exists {
			c.order = append(c.order, e.ID)
		}
		c.entries[e.ID] = domain.IndexEntry{
			ID:       e.ID,
			Vector:   slices.Clone(e.Vector),
			Metadata: maps.Clone(e.Metadata),
		}
	}
	return nil
}

// Query scores every entry and returns the best topK. Ties keep insertion order.
func (x *Index) Query(_ context.Context, name string, vec []float32, topK int) ([]domain.Match, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	c, ok := x.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: index %s", domain.ErrNotFound, name)
	}
	if len(vec) != c.dimension {
		return nil, fmt.Errorf("%w: query dimension %d, want %d", domain.ErrInvalidParameter, len(vec), c.dimension)
	}

	matches := make([]domain.Match, 0, len(c.order))
	for _, id := range c.order {
		e := c.entries[id]
		matches = append(matches, domain.Match{
			ID:       id,
			Score:    score(c.metric, vec, e.Vector),
			Metadata: maps.Clone(e.Metadata),
		})
	}
	slices.SortStableFunc(matches, func(a, b domain.Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if topK < len(matches) {
		matches = matches[:max(topK, 0)]
	}
	return matches, nil
}

// Stats reports the entry count.
func (x *Index) Stats(_ context.Context, name string) (domain.IndexStats, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	c, ok := x.collections[name]
	if !ok {
		return domain.IndexStats{}, fmt.Errorf("%w: index %s", domain.ErrNotFound, name)
	}
	return domain.IndexStats{VectorCount: len(c.entries), Dimension: c.dimension}, nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// score returns a similarity where higher is better for every metric.
func score(metric domain.Metric, a, b []float32) float32 {
	switch metric {
	case domain.MetricEuclidean:
		var sum float64
		for i := range a {
			d := float64(a[i] - b[i])
			sum += d * d
		}
		return float32(-math.Sqrt(sum))
	case domain.MetricDotProduct:
		return float32(dot(a, b))
	default:
		na, nb := math.Sqrt(dot(a, a)), math.Sqrt(dot(b, b))
		if na == 0 || nb == 0 {
			return 0
		}
		return float32(dot(a, b) / (na * nb))
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
