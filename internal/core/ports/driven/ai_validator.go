package driven

import "github.com/custodia-labs/docu-cli/internal/core/domain"

// AIConfigValidator checks that AI provider configurations work by
// testing connectivity to the underlying services.
type AIConfigValidator interface {
	// ValidateEmbedding creates the embedding service and pings it.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM creates the completion service and pings it.
	ValidateLLM(config *domain.LLMSettings) error
}
