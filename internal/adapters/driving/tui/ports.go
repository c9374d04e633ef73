// Package tui provides an interactive terminal chat for docu.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Pipeline answers questions and summarises documents.
	Pipeline driving.PipelineService

	// Conversations lists documents and their stored history.
	Conversations driving.ConversationService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(pipeline driving.PipelineService, conversations driving.ConversationService) *Ports {
	return &Ports{
		Pipeline:      pipeline,
		Conversations: conversations,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	if p.Conversations == nil {
		return ErrMissingConversationService
	}
	return nil
}
