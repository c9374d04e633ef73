// Package mcp provides an MCP (Model Context Protocol) server adapter for docu.
// It lets AI assistants ingest documents and ask questions about them.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")

// ErrMissingConversationService is returned when the conversation service is not provided.
var ErrMissingConversationService = errors.New("mcp: conversation service is required")
