package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <document-id> <question>",
	Short: "Ask one question about a document",
	Long: `Answers a question using the chunks of the document most similar to it
and the document's earlier questions and answers. The turn is saved to the
document's history.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <document-id>",
	Short: "Summarize a document section by section",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(summarizeCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	question := strings.Join(args[1:], " ")
	answer, err := pipelineService.Ask(cmd.Context(), args[0], question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", describeError(err))
	}

	cmd.Println(answer)
	return nil
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	summary, err := pipelineService.Summarize(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("summarize failed: %w", describeError(err))
	}

	cmd.Println(summary)
	return nil
}
