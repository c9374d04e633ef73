package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid history URI", "docu://documents/doc-456/history", "doc-456"},
		{"invalid prefix", "file://documents/doc-456/history", ""},
		{"missing history suffix", "docu://documents/doc-456", ""},
		{"nested path", "docu://documents/a/b/history", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns documents", func(t *testing.T) {
		convs := &mockConversationService{conversations: []domain.Conversation{
			{DocumentID: "doc-1", DocumentName: "Lease Agreement", IndexName: "lease-agreement", ChunkCount: 4},
		}}
		server, err := newTestServer(nil, convs)
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docu://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"id": "doc-1"`)
		assert.Contains(t, result.Contents[0].Text, "lease-agreement")
	})

	t.Run("empty store returns empty list", func(t *testing.T) {
		server, err := newTestServer(nil, &mockConversationService{conversations: []domain.Conversation{}})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docu://documents"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server, err := newTestServer(nil, &mockConversationService{err: errors.New("database error")})
		require.NoError(t, err)

		_, err = server.handleDocumentsResource(ctx, makeReadResourceRequest("docu://documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns history in stored order", func(t *testing.T) {
		convs := &mockConversationService{conversation: &domain.Conversation{
			DocumentID: "doc-1",
			History: []domain.Message{
				{Role: domain.RoleUser, Content: "first question"},
				{Role: domain.RoleAssistant, Content: "first answer"},
			},
		}}
		server, err := newTestServer(nil, convs)
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("docu://documents/doc-1/history"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Less(t, strings.Index(text, "first question"), strings.Index(text, "first answer"))
	})

	t.Run("no history returns empty list", func(t *testing.T) {
		server, err := newTestServer(nil, &mockConversationService{conversation: &domain.Conversation{DocumentID: "d"}})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("docu://documents/d/history"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("unknown document returns not found", func(t *testing.T) {
		server, err := newTestServer(nil, &mockConversationService{err: domain.ErrNotFound})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("docu://documents/missing/history"))

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := newTestServer(nil, nil)
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("docu://invalid/uri"))

		require.Error(t, err)
	})
}
