// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/docu-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docu-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/docu-cli/internal/adapters/driven/embedding/ratelimit"
	anthropicllm "github.com/custodia-labs/docu-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/docu-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docu-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// apiKeyEnv names the environment variable that supplies each provider's key.
var apiKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderGroq:      "GROQ_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
}

// ValidateEmbeddingConfig creates an embedding service and pings it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// ValidateLLMConfig creates a completion service and pings it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateCompletionService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return nil
}

// CreateEmbeddingService creates the embedding service selected by settings,
// throttled to settings.RequestsPerMinute.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrEmbeddingUnavailable)
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		if settings.APIKey == "" {
			return nil, missingKey(domain.ErrEmbeddingUnavailable, settings.Provider)
		}
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGroq, domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: %s does not support embeddings, use ollama or openai",
			domain.ErrEmbeddingUnavailable, settings.Provider)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q",
			domain.ErrEmbeddingUnavailable, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return ratelimit.Wrap(svc, settings.RequestsPerMinute), nil
}

// CreateCompletionService creates the completion service selected by settings.
func CreateCompletionService(settings *domain.LLMSettings) (driven.CompletionService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no llm settings", domain.ErrLLMUnavailable)
	}
	if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
		return nil, missingKey(domain.ErrLLMUnavailable, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewCompletionService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewCompletionService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGroq:
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = openaillm.GroqBaseURL
		}
		return openaillm.NewCompletionService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: baseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewCompletionService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported llm provider %q", domain.ErrLLMUnavailable, settings.Provider)
	}
}

func missingKey(sentinel error, provider domain.AIProvider) error {
	return fmt.Errorf("%w: %s requires an API key, set %s", sentinel, provider, apiKeyEnv[provider])
}
