package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

func testConversation() domain.Conversation {
	return domain.Conversation{
		DocumentID:   "doc-1",
		DocumentName: "Lease Agreement",
		IndexName:    "lease-agreement",
		ChunkCount:   4,
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	conversations := &MockConversationService{
		ListFunc: func(_ context.Context) ([]domain.Conversation, error) {
			return []domain.Conversation{testConversation()}, nil
		},
		GetFunc: func(_ context.Context, id string) (*domain.Conversation, error) {
			if id == "doc-1" {
				c := testConversation()
				return &c, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	pipeline := &MockPipelineService{
		AskFunc: func(_ context.Context, _, _ string) (string, error) { return "Twelve months.", nil },
	}
	app, err := NewApp(NewPorts(pipeline, conversations))
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func TestNewApp_Success(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
	assert.True(t, app.Ready())
	assert.NoError(t, app.Err())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Pipeline: &MockPipelineService{}})

	assert.ErrorIs(t, err, ErrMissingConversationService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app, err := NewApp(NewPorts(&MockPipelineService{}, &MockConversationService{}))
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(NewPorts(&MockPipelineService{}, &MockConversationService{}))
	require.NoError(t, err)

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.width)
}

func TestApp_SelectOpensChat(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.DocumentSelected{Document: testConversation()})

	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Contains(t, app.View(), "Chat - Lease Agreement")
}

func TestApp_AskRoundTrip(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.DocumentSelected{Document: testConversation()})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("How long is the term?")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Contains(t, app.View(), "Twelve months.")
	assert.Equal(t, 1, app.chatView.Document().Turns())
}

func TestApp_BackToDocumentsReloads(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.DocumentSelected{Document: testConversation()})

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewDocuments})

	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
	require.NotNil(t, cmd)
	loaded, ok := cmd().(messages.DocumentsLoaded)
	require.True(t, ok)
	app.Update(loaded)
	assert.Contains(t, app.View(), "Lease Agreement")
}

func TestApp_OpenDocument(t *testing.T) {
	app := newTestApp(t).OpenDocument("doc-1")

	msg := app.loadDocument("doc-1")()

	selected, ok := msg.(messages.DocumentSelected)
	require.True(t, ok)
	assert.Equal(t, "doc-1", selected.Document.DocumentID)
}

func TestApp_OpenMissingDocument(t *testing.T) {
	app := newTestApp(t)

	msg := app.loadDocument("nope")()

	failed, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.Contains(t, failed.Err.Error(), `"nope" not found`)

	app.Update(failed)
	assert.Error(t, app.Err())
}

func TestApp_ErrorShownInChat(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.DocumentSelected{Document: testConversation()})

	app.Update(messages.ErrorOccurred{Err: errors.New("pipeline service not available")})

	assert.Contains(t, app.View(), "pipeline service not available")
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
