package driven

import (
	"context"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// CompletionService turns an ordered message list into generated text.
//
// Implementations may include:
//   - OpenAI and OpenAI-compatible APIs (Groq)
//   - Anthropic (Claude)
//   - Ollama (local models)
type CompletionService interface {
	// Complete returns the single generated answer for the messages.
	// Failures wrap domain.ErrService.
	Complete(ctx context.Context, messages []domain.Message, opts CompletionOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionOptions configures a single completion.
type CompletionOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero leaves it to the provider.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
