// Package api exposes the pipeline over a JSON HTTP API.
package api

import (
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Pipeline      driving.PipelineService
	Conversations driving.ConversationService
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
