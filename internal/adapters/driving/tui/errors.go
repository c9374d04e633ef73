package tui

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("tui: pipeline service is required")

// ErrMissingConversationService is returned when the conversation service is not provided.
var ErrMissingConversationService = errors.New("tui: conversation service is required")
