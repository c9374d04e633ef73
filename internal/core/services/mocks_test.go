package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	doc *domain.ExtractedDocument
	err error
}

func (m *mockExtractor) Extract(_ context.Context, path string) (*domain.ExtractedDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc := *m.doc
	doc.Path = path
	return &doc, nil
}

func (m *mockExtractor) ExtractBytes(ctx context.Context, name string, data []byte) (*domain.ExtractedDocument, error) {
	doc, err := m.Extract(ctx, name)
	if err != nil {
		return nil, err
	}
	doc.Raw = data
	return doc, nil
}

func (m *mockExtractor) Supports(string) bool { return true }

// mockEmbedder implements driven.EmbeddingService for testing.
// Vectors are derived from the text length so they are stable.
type mockEmbedder struct {
	calls  []string
	err    error
	failAt int // 1-based call that fails; 0 never fails
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls = append(m.calls, text)
	if m.err != nil && (m.failAt == 0 || len(m.calls) == m.failAt) {
		return nil, m.err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	mu sync.Mutex

	created   map[string]int
	upserts   [][]domain.IndexEntry
	queries   []int
	queried   []string
	matches   []domain.Match
	stats     []domain.IndexStats // returned in order, last one repeats
	statsErrs []error             // returned in order before stats
	statCalls int

	createErr error
	upsertErr error
	queryErr  error
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{created: map[string]int{}}
}

func (m *mockVectorIndex) Create(_ context.Context, name string, dim int, _ domain.Metric) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created[name] = dim
	return nil
}

func (m *mockVectorIndex) Upsert(_ context.Context, _ string, entries []domain.IndexEntry) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, slices.Clone(entries))
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, name string, _ []float32, topK int) ([]domain.Match, error) {
	m.queries = append(m.queries, topK)
	m.queried = append(m.queried, name)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if topK < len(m.matches) {
		return m.matches[:topK], nil
	}
	return m.matches, nil
}

func (m *mockVectorIndex) Stats(_ context.Context, _ string) (domain.IndexStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := m.statCalls
	m.statCalls++
	if call < len(m.statsErrs) && m.statsErrs[call] != nil {
		return domain.IndexStats{}, m.statsErrs[call]
	}
	if len(m.stats) == 0 {
		return domain.IndexStats{VectorCount: 1}, nil
	}
	return m.stats[min(call, len(m.stats)-1)], nil
}

func (m *mockVectorIndex) Close() error { return nil }

func textMatches(texts ...string) []domain.Match {
	out := make([]domain.Match, len(texts))
	for i, t := range texts {
		out[i] = domain.Match{
			ID:       fmt.Sprintf("m-%d", i),
			Score:    1 - float32(i)/10,
			Metadata: map[string]any{domain.MetadataText: t},
		}
	}
	return out
}

// mockCompleter implements driven.CompletionService for testing.
type mockCompleter struct {
	calls   [][]domain.Message
	opts    []driven.CompletionOptions
	answers []string
	err     error
}

func (m *mockCompleter) Complete(_ context.Context, msgs []domain.Message, opts driven.CompletionOptions) (string, error) {
	m.calls = append(m.calls, slices.Clone(msgs))
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	if len(m.answers) == 0 {
		return "answer", nil
	}
	return m.answers[min(len(m.calls)-1, len(m.answers)-1)], nil
}

func (m *mockCompleter) ModelName() string            { return "mock-llm" }
func (m *mockCompleter) Ping(_ context.Context) error { return nil }
func (m *mockCompleter) Close() error                 { return nil }

// mockStore implements driven.ConversationStore for testing.
type mockStore struct {
	records map[string]domain.Conversation
	saves   int
	saveErr error
	loadErr error
}

func newMockStore() *mockStore {
	return &mockStore{records: map[string]domain.Conversation{}}
}

func (m *mockStore) Load(_ context.Context, id string) (*domain.Conversation, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	c, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.History = slices.Clone(c.History)
	return &c, nil
}

func (m *mockStore) Save(_ context.Context, c *domain.Conversation) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	cp := *c
	cp.History = slices.Clone(c.History)
	m.records[c.DocumentID] = cp
	return nil
}

func (m *mockStore) List(_ context.Context) ([]domain.Conversation, error) {
	out := make([]domain.Conversation, 0, len(m.records))
	for _, c := range m.records {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockStore) Close() error { return nil }

// mockObjectStore implements driven.ObjectStore for testing.
type mockObjectStore struct {
	keys []string
	err  error
}

func (m *mockObjectStore) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.keys = append(m.keys, key)
	return "mem://bucket/" + key, nil
}

func (m *mockObjectStore) Close() error { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// wordCounter counts whitespace-separated words as tokens.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }
