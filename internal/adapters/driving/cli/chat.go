package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui"
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var chatCmd = &cobra.Command{
	Use:   "chat [document-id]",
	Short: "Chat with a document",
	Long: `Opens an interactive chat. In a terminal this launches a full screen UI
listing your documents; pass a document id to open it directly.

When input is not a terminal, each line read from stdin is asked as a
question about the given document and the answers are printed in order.

Controls:
  ↑/k, ↓/j - Navigate documents
  Enter    - Open document / Ask
  Ctrl+S   - Summarize
  Esc      - Back to documents
  Ctrl+C   - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	documentID := ""
	if len(args) == 1 {
		documentID = args[0]
	}

	if stdinIsTerminal() {
		return runChatTUI(cmd, documentID)
	}
	if documentID == "" {
		return errors.New("a document id is required when stdin is not a terminal")
	}
	return runChatREPL(cmd, documentID)
}

func runChatTUI(cmd *cobra.Command, documentID string) error {
	app, err := tui.NewApp(tui.NewPorts(pipelineService, conversationService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if documentID != "" {
		app.OpenDocument(documentID)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runChatREPL answers one question per input line.
func runChatREPL(cmd *cobra.Command, documentID string) error {
	ctx := cmd.Context()
	if _, err := conversationService.Get(ctx, documentID); err != nil {
		return fmt.Errorf("failed to open document: %w", describeError(err))
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, err := pipelineService.Ask(ctx, documentID, question)
		if err != nil {
			// history is unchanged, so the next question can still go through
			cmd.PrintErrf("error: %v\n", describeError(err))
			continue
		}
		cmd.Println(answer)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading questions: %w", err)
	}
	return nil
}
