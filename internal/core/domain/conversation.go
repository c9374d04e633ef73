package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Message roles understood by completion services.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is one entry of a prompt or of a conversation history.
// History only ever holds user and assistant messages.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the per-document record kept by the conversation store.
type Conversation struct {
	// DocumentID is the store key.
	DocumentID string `json:"document_id"`

	// DocumentName is the name the document was ingested under.
	// The vector index name is derived from it.
	DocumentName string `json:"document_name"`

	// IndexName is the slug the document was ingested into.
	IndexName string `json:"index_name"`

	// ObjectURL is set when the raw document was uploaded to an object store.
	ObjectURL string `json:"object_url,omitempty"`

	// ChunkCount is the number of chunks upserted at ingestion.
	ChunkCount int `json:"chunk_count"`

	// History is append-only and never reordered.
	History []Message `json:"history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppendTurn appends a completed question/answer pair.
func (c *Conversation) AppendTurn(question, answer string) {
	c.History = append(c.History,
		Message{Role: RoleUser, Content: question},
		Message{Role: RoleAssistant, Content: answer},
	)
}

// Turns returns the number of completed question/answer pairs.
func (c *Conversation) Turns() int {
	return len(c.History) / 2
}
