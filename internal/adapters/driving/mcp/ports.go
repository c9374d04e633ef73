package mcp

import (
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Pipeline ingests documents and answers questions.
	Pipeline driving.PipelineService

	// Conversations lists documents and their history.
	Conversations driving.ConversationService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	if p.Conversations == nil {
		return ErrMissingConversationService
	}
	return nil
}
