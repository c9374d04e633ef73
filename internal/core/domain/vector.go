package domain

// Metric is the distance function a vector index was created with.
type Metric string

// Supported metrics.
const (
	MetricCosine     Metric = "cosine"
	MetricEuclidean  Metric = "euclidean"
	MetricDotProduct Metric = "dotproduct"
)

// IsValid returns true if the metric is recognised.
func (m Metric) IsValid() bool {
	switch m {
	case MetricCosine, MetricEuclidean, MetricDotProduct:
		return true
	default:
		return false
	}
}

// MetadataText is the metadata key holding a chunk's text.
const MetadataText = "text"

// IndexEntry is the unit persisted in a vector index.
type IndexEntry struct {
	ID       string
	Vector   []float32
	Metadata map[string]any
}

// Match is one ranked result of a vector query.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// Text returns the chunk text stored in the match metadata.
func (m Match) Text() string {
	if m.Metadata == nil {
		return ""
	}
	s, _ := m.Metadata[MetadataText].(string)
	return s
}

// IndexStats describes the current state of a vector index.
type IndexStats struct {
	VectorCount int
	Dimension   int
}

// Ready reports whether the index holds at least one vector.
func (s IndexStats) Ready() bool {
	return s.VectorCount >= 1
}
