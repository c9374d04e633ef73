package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

type mockPipelineService struct {
	ingestFunc    func(ctx context.Context, req driving.IngestRequest) (*domain.IngestResult, error)
	askFunc       func(ctx context.Context, documentID, question string) (string, error)
	summarizeFunc func(ctx context.Context, documentID string) (string, error)
	questions     []string
}

func (m *mockPipelineService) Run(_ context.Context, _ domain.Request) (*domain.Response, error) {
	return nil, nil
}

func (m *mockPipelineService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.IngestResult, error) {
	if m.ingestFunc != nil {
		return m.ingestFunc(ctx, req)
	}
	return &domain.IngestResult{DocumentID: "doc-1", IndexName: "lease-agreement", ChunkCount: 3}, nil
}

func (m *mockPipelineService) Ask(ctx context.Context, documentID, question string) (string, error) {
	m.questions = append(m.questions, question)
	if m.askFunc != nil {
		return m.askFunc(ctx, documentID, question)
	}
	return "answer to " + question, nil
}

func (m *mockPipelineService) Summarize(ctx context.Context, documentID string) (string, error) {
	if m.summarizeFunc != nil {
		return m.summarizeFunc(ctx, documentID)
	}
	return "Section 1:\nSummary of " + documentID, nil
}

type mockConversationService struct {
	conversations []domain.Conversation
	listErr       error
}

func (m *mockConversationService) Get(_ context.Context, documentID string) (*domain.Conversation, error) {
	for i := range m.conversations {
		if m.conversations[i].DocumentID == documentID {
			c := m.conversations[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockConversationService) List(_ context.Context) ([]domain.Conversation, error) {
	return m.conversations, m.listErr
}

type mockValidator struct {
	embeddingErr error
	llmErr       error
}

func (m *mockValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error { return m.embeddingErr }
func (m *mockValidator) ValidateLLM(_ *domain.LLMSettings) error             { return m.llmErr }

func testConversations() []domain.Conversation {
	return []domain.Conversation{
		{
			DocumentID:   "doc-1",
			DocumentName: "Lease Agreement",
			IndexName:    "lease-agreement",
			ChunkCount:   3,
			History: []domain.Message{
				{Role: domain.RoleUser, Content: "Who is the tenant?"},
				{Role: domain.RoleAssistant, Content: "Jane Doe."},
			},
		},
	}
}

// setupTestServices injects mocks and resets flag state.
func setupTestServices(t *testing.T) (*mockPipelineService, *mockConversationService) {
	t.Helper()
	pipeline := &mockPipelineService{}
	conversations := &mockConversationService{conversations: testConversations()}

	oldPipeline, oldConversations := pipelineService, conversationService
	SetServices(pipeline, conversations)
	t.Cleanup(func() {
		SetServices(oldPipeline, oldConversations)
		ingestName, ingestSummarize = "", false
		documentsJSON, historyJSON = false, false
		doctorOffline = false
		rootCmd.SetIn(nil)
	})
	return pipeline, conversations
}

// execute runs the root command and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func withStdin(t *testing.T, input string, terminal bool) {
	t.Helper()
	old := stdinIsTerminal
	stdinIsTerminal = func() bool { return terminal }
	rootCmd.SetIn(strings.NewReader(input))
	t.Cleanup(func() { stdinIsTerminal = old })
}
