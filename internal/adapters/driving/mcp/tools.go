package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"absolute path of a PDF, DOCX, HTML, Markdown or text file"`
	Name string `json:"name,omitempty" jsonschema:"document name (defaults to the file name)"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
	IndexName  string `json:"index_name"`
	ChunkCount int    `json:"chunk_count"`
	ObjectURL  string `json:"object_url,omitempty"`
}

// AskInput is the input schema for the ask_document tool.
type AskInput struct {
	DocumentID string `json:"document_id" jsonschema:"id returned by ingest_document"`
	Question   string `json:"question" jsonschema:"question about the document"`
}

// AskOutput is the output schema for the ask_document tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// SummarizeInput is the input schema for the summarize_document tool.
type SummarizeInput struct {
	DocumentID string `json:"document_id" jsonschema:"id returned by ingest_document"`
}

// SummarizeOutput is the output schema for the summarize_document tool.
type SummarizeOutput struct {
	Summary string `json:"summary"`
}

// ListInput is the (empty) input schema for the list_documents tool.
type ListInput struct{}

// ListOutput is the output schema for the list_documents tool.
type ListOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes one ingested document.
type DocumentOutput struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
	IndexName  string `json:"index_name"`
	ChunkCount int    `json:"chunk_count"`
	Turns      int    `json:"turns"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a local document so questions can be asked about it",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Answer a question using only the content of an ingested document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_document",
		Description: "Summarise an ingested document section by section",
	}, s.handleSummarize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List ingested documents",
	}, s.handleList)
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	result, err := s.ports.Pipeline.Ingest(ctx, driving.IngestRequest{Path: input.Path, Name: input.Name})
	if err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{
		DocumentID: result.DocumentID,
		IndexName:  result.IndexName,
		ChunkCount: result.ChunkCount,
		ObjectURL:  result.ObjectURL,
	}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Pipeline.Ask(ctx, input.DocumentID, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Answer: answer}, nil
}

func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeInput,
) (*mcp.CallToolResult, SummarizeOutput, error) {
	summary, err := s.ports.Pipeline.Summarize(ctx, input.DocumentID)
	if err != nil {
		return nil, SummarizeOutput{}, err
	}
	return nil, SummarizeOutput{Summary: summary}, nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	convs, err := s.ports.Conversations.List(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Documents: make([]DocumentOutput, len(convs)),
		Count:     len(convs),
	}
	for i := range convs {
		output.Documents[i] = DocumentOutput{
			DocumentID: convs[i].DocumentID,
			Name:       convs[i].DocumentName,
			IndexName:  convs[i].IndexName,
			ChunkCount: convs[i].ChunkCount,
			Turns:      convs[i].Turns(),
		}
	}
	return nil, output, nil
}
