package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docu-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// aiValidator is replaced in tests.
var aiValidator driven.AIConfigValidator = ai.NewConfigValidator()

var doctorOffline bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check settings and provider connectivity",
	Long: `Prints the effective settings (API keys masked) and pings the embedding
and completion providers.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false, "only validate settings, do not contact providers")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	printSettings(cmd, &settings)

	var failed []error
	check := func(name string, err error) {
		if err != nil {
			cmd.Printf("  [FAIL] %s: %v\n", name, err)
			failed = append(failed, err)
			return
		}
		cmd.Printf("  [ OK ] %s\n", name)
	}

	cmd.Println("Checks")
	check("settings", settings.Validate())
	if !doctorOffline {
		check("embedding provider", aiValidator.ValidateEmbedding(&settings.Embedding))
		check("completion provider", aiValidator.ValidateLLM(&settings.LLM))
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d check(s) failed: %w", len(failed), errors.Join(failed...))
	}
	return nil
}

func printSettings(cmd *cobra.Command, s *domain.Settings) {
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", s.Embedding.Provider.Description())
	cmd.Printf("  Model:    %s\n", s.Embedding.Model)
	if s.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", s.Embedding.BaseURL)
	}
	if s.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key:  %s\n", maskAPIKey(s.Embedding.APIKey))
	}
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", s.LLM.Provider.Description())
	cmd.Printf("  Model:    %s\n", s.LLM.Model)
	if s.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", s.LLM.BaseURL)
	}
	if s.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key:  %s\n", maskAPIKey(s.LLM.APIKey))
	}
	cmd.Printf("  Temperature: %.1f (summaries %.1f)\n", s.LLM.Temperature, s.LLM.SummaryTemperature)
	cmd.Println()

	cmd.Println("[Vector Index]")
	cmd.Printf("  Backend: %s\n", s.VectorIndex.Backend)
	if s.VectorIndex.URL != "" {
		cmd.Printf("  URL:     %s\n", s.VectorIndex.URL)
	}
	if s.VectorIndex.Backend == domain.VectorBackendPinecone {
		cmd.Printf("  API Key: %s\n", maskAPIKey(s.VectorIndex.APIKey))
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Conversations: %s\n", s.ConversationStore.Backend)
	cmd.Printf("  Uploads:       %s\n", s.ObjectStore.Backend)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Chunks:   %d words, %d overlap\n", s.Chunking.Size, s.Chunking.Overlap)
	cmd.Printf("  Top K:    %d (summaries %d in groups of %d)\n",
		s.Retrieval.TopK, s.Retrieval.SummaryTopK, s.Retrieval.SummaryGroupSize)
	cmd.Println()
}

// maskAPIKey masks an API key for display.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
