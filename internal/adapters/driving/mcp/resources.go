package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for docu resources.
	uriScheme = "docu://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all ingested documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/history",
		Name:        "document-history",
		Description: "Question and answer history of a document",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleDocumentsResource returns every ingested document.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	convs, err := s.ports.Conversations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		IndexName  string `json:"index_name"`
		ChunkCount int    `json:"chunk_count"`
	}

	infos := make([]docInfo, len(convs))
	for i := range convs {
		infos[i] = docInfo{
			ID:         convs[i].DocumentID,
			Name:       convs[i].DocumentName,
			IndexName:  convs[i].IndexName,
			ChunkCount: convs[i].ChunkCount,
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleHistoryResource returns the stored history of one document.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	conv, err := s.ports.Conversations.Get(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	history := conv.History
	if history == nil {
		history = []domain.Message{}
	}
	return jsonResult(req.Params.URI, history)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like docu://documents/{documentId}/history.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/history"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
