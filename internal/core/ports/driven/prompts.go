package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptChatSystem is the system message for question answering.
	// This prompt has no format placeholders.
	PromptChatSystem = "chat_system"

	// PromptSectionSummary summarises one group of chunks.
	// The template expects %[1]d (section number) and %[2]s (section text).
	PromptSectionSummary = "section_summary"
)
