package mcp

import (
	"context"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	ingest  *domain.IngestResult
	answer  string
	summary string
	err     error

	lastIngest   driving.IngestRequest
	lastDocID    string
	lastQuestion string
}

func (m *mockPipelineService) Run(_ context.Context, req domain.Request) (*domain.Response, error) {
	return &domain.Response{Mode: req.Mode}, m.err
}

func (m *mockPipelineService) Ingest(_ context.Context, req driving.IngestRequest) (*domain.IngestResult, error) {
	m.lastIngest = req
	return m.ingest, m.err
}

func (m *mockPipelineService) Ask(_ context.Context, documentID, question string) (string, error) {
	m.lastDocID = documentID
	m.lastQuestion = question
	return m.answer, m.err
}

func (m *mockPipelineService) Summarize(_ context.Context, documentID string) (string, error) {
	m.lastDocID = documentID
	return m.summary, m.err
}

// mockConversationService is a mock implementation of driving.ConversationService.
type mockConversationService struct {
	conversations []domain.Conversation
	conversation  *domain.Conversation
	err           error
}

func (m *mockConversationService) Get(_ context.Context, _ string) (*domain.Conversation, error) {
	return m.conversation, m.err
}

func (m *mockConversationService) List(_ context.Context) ([]domain.Conversation, error) {
	return m.conversations, m.err
}

func newTestServer(pipeline *mockPipelineService, convs *mockConversationService) (*Server, error) {
	if pipeline == nil {
		pipeline = &mockPipelineService{}
	}
	if convs == nil {
		convs = &mockConversationService{}
	}
	return NewServer(&Ports{Pipeline: pipeline, Conversations: convs})
}
