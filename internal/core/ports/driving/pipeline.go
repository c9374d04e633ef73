package driving

import (
	"context"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// PipelineService runs ingestion, summarisation and chat turns.
type PipelineService interface {
	// Run executes one request in the flow selected by its Mode.
	Run(ctx context.Context, req domain.Request) (*domain.Response, error)

	// Ingest extracts, chunks, embeds and upserts a document, then
	// creates its conversation record.
	Ingest(ctx context.Context, req IngestRequest) (*domain.IngestResult, error)

	// Ask answers a question about an ingested document and persists the turn.
	Ask(ctx context.Context, documentID, question string) (string, error)

	// Summarize returns a sectioned summary of an ingested document.
	Summarize(ctx context.Context, documentID string) (string, error)
}

// IngestRequest describes a document to ingest.
// Either Path or Data must be set.
type IngestRequest struct {
	// Path is a file on disk.
	Path string

	// Data is an in-memory document; FileName supplies its extension.
	Data     []byte
	FileName string

	// Name overrides the derived document name.
	Name string
}

// ConversationService exposes stored documents and their history.
type ConversationService interface {
	// Get returns the record for a document.
	Get(ctx context.Context, documentID string) (*domain.Conversation, error)

	// List returns all ingested documents.
	List(ctx context.Context) ([]domain.Conversation, error)
}
