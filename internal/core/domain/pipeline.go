package domain

// Mode selects which flow a pipeline run executes.
type Mode string

// Pipeline modes.
const (
	// ModeIngest extracts, chunks, embeds and upserts a document.
	ModeIngest Mode = "ingest"

	// ModeSummarize produces a sectioned summary of an ingested document.
	ModeSummarize Mode = "summarize"

	// ModeChat answers one question and appends the turn to history.
	ModeChat Mode = "chat"
)

// IsValid returns true if the mode is recognised.
func (m Mode) IsValid() bool {
	switch m {
	case ModeIngest, ModeSummarize, ModeChat:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m Mode) String() string {
	return string(m)
}

// Request is the input to a single pipeline run.
type Request struct {
	Mode Mode

	// Path is the source file (ingest).
	Path string

	// Name overrides the document name derived from Path (ingest).
	Name string

	// DocumentID selects the conversation record (summarize, chat).
	DocumentID string

	// Question is the user's question (chat).
	Question string
}

// IngestResult is returned by a completed ingestion.
type IngestResult struct {
	DocumentID string
	IndexName  string
	ChunkCount int
	ObjectURL  string
}

// Response is the output of a single pipeline run.
// Only the fields relevant to the run's Mode are set.
type Response struct {
	Mode    Mode
	Ingest  *IngestResult
	Answer  string
	Summary string
}
