// Package cli provides the docu command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docu-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docu-cli/internal/app"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docu-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationStandalone marks commands that do not need the pipeline.
const annotationStandalone = "docu/standalone"

var (
	configDir string
	verbose   bool
)

// Services used by commands. Built lazily from settings unless injected.
var (
	pipelineService     driving.PipelineService
	conversationService driving.ConversationService
	supportsFile        func(path string) bool

	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "docu",
	Short: "Ask questions about your documents",
	Long: `docu ingests PDF and text documents into a vector index and answers
questions about them with a language model, grounded in the retrieved text.

Each document keeps its own conversation, so follow-up questions see
earlier answers.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	// cobra prints to stderr unless told otherwise; answers belong on stdout
	rootCmd.SetOut(os.Stdout)
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docu)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs for every pipeline step")
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx and closes every adapter
// it opened, also when the command fails.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, closeServices())
}

// SetServices injects services, bypassing settings. Used by tests and embedders.
func SetServices(pipeline driving.PipelineService, conversations driving.ConversationService) {
	pipelineService = pipeline
	conversationService = conversations
}

func standalone(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationStandalone] == "true"
}

func loadSettings() (domain.Settings, error) {
	store, err := file.NewSettingsStore(configDir)
	if err != nil {
		return domain.Settings{}, err
	}
	return store.Load()
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if standalone(cmd) {
		return nil
	}
	if pipelineService != nil && conversationService != nil {
		return nil
	}

	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	a, err := app.New(cmd.Context(), settings, app.Options{ConfigDir: configDir})
	if err != nil {
		return fmt.Errorf("starting pipeline: %w", err)
	}

	application = a
	pipelineService = a.Pipeline
	conversationService = a.Conversations
	supportsFile = a.Extractor.Supports
	return nil
}

func closeServices() error {
	if application == nil {
		return nil
	}
	err := application.Close()
	application = nil
	pipelineService = nil
	conversationService = nil
	supportsFile = nil
	return err
}

// requireServices guards commands against missing injection.
func requireServices() error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}
	return nil
}

// describeError turns pipeline errors into hints for the terminal.
func describeError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%w\nrun 'docu documents' to list ingested documents", err)
	case errors.Is(err, domain.ErrUnsupportedType):
		return fmt.Errorf("%w\nsupported inputs are PDF, DOCX, HTML, Markdown and plain text", err)
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrEmbeddingUnavailable):
		return fmt.Errorf("%w\nrun 'docu doctor' to check provider settings", err)
	default:
		return err
	}
}
