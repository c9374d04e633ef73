// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments lists ingested documents.
	ViewDocuments ViewType = iota
	// ViewChat is the question and answer view for one document.
	ViewChat
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewChat:
		return "chat"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the list of ingested documents.
type DocumentsLoaded struct {
	Documents []domain.Conversation
	Err       error
}

// DocumentSelected signals a document was chosen for chat.
type DocumentSelected struct {
	Document domain.Conversation
}

// AnswerReceived carries the outcome of one question.
type AnswerReceived struct {
	DocumentID string
	Question   string
	Answer     string
	Err        error
}

// SummaryReceived carries a sectioned summary of a document.
type SummaryReceived struct {
	DocumentID string
	Summary    string
	Err        error
}
