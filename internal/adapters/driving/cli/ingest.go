package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

var (
	ingestName      string
	ingestSummarize bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a document",
	Long: `Extracts the text of a document, splits it into overlapping word chunks,
embeds every chunk and upserts them into a vector index named after the
document. Prints the document id used by ask, chat and history.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestName, "name", "n", "", "document name (default: file name)")
	ingestCmd.Flags().BoolVarP(&ingestSummarize, "summarize", "s", false, "print a sectioned summary after ingesting")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	ctx := cmd.Context()
	cmd.Printf("Ingesting %s...\n", args[0])

	result, err := pipelineService.Ingest(ctx, driving.IngestRequest{
		Path: args[0],
		Name: ingestName,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", describeError(err))
	}

	cmd.Println()
	cmd.Printf("  Document ID: %s\n", result.DocumentID)
	cmd.Printf("  Index:       %s\n", result.IndexName)
	cmd.Printf("  Chunks:      %d\n", result.ChunkCount)
	if result.ObjectURL != "" {
		cmd.Printf("  Stored at:   %s\n", result.ObjectURL)
	}

	if !ingestSummarize {
		return nil
	}

	summary, err := pipelineService.Summarize(ctx, result.DocumentID)
	if err != nil {
		return fmt.Errorf("summarize failed: %w", describeError(err))
	}
	cmd.Println()
	cmd.Println(summary)
	return nil
}
