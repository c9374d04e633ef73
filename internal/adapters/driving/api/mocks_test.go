package api

import (
	"context"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

type mockPipelineService struct {
	ingestFunc    func(ctx context.Context, req driving.IngestRequest) (*domain.IngestResult, error)
	askFunc       func(ctx context.Context, documentID, question string) (string, error)
	summarizeFunc func(ctx context.Context, documentID string) (string, error)
}

func (m *mockPipelineService) Run(_ context.Context, _ domain.Request) (*domain.Response, error) {
	return nil, nil
}

func (m *mockPipelineService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.IngestResult, error) {
	if m.ingestFunc != nil {
		return m.ingestFunc(ctx, req)
	}
	return &domain.IngestResult{}, nil
}

func (m *mockPipelineService) Ask(ctx context.Context, documentID, question string) (string, error) {
	if m.askFunc != nil {
		return m.askFunc(ctx, documentID, question)
	}
	return "", nil
}

func (m *mockPipelineService) Summarize(ctx context.Context, documentID string) (string, error) {
	if m.summarizeFunc != nil {
		return m.summarizeFunc(ctx, documentID)
	}
	return "", nil
}

type mockConversationService struct {
	getFunc  func(ctx context.Context, documentID string) (*domain.Conversation, error)
	listFunc func(ctx context.Context) ([]domain.Conversation, error)
}

func (m *mockConversationService) Get(ctx context.Context, documentID string) (*domain.Conversation, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, documentID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockConversationService) List(ctx context.Context) ([]domain.Conversation, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
