package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

var (
	documentsJSON bool
	historyJSON   bool
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"ls"},
	Short:   "List ingested documents",
	Args:    cobra.NoArgs,
	RunE:    runDocuments,
}

var historyCmd = &cobra.Command{
	Use:   "history <document-id>",
	Short: "Print the conversation history of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	documentsCmd.Flags().BoolVar(&documentsJSON, "json", false, "output as JSON")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(historyCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	docs, err := conversationService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentsJSON {
		if docs == nil {
			docs = []domain.Conversation{}
		}
		return writeJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	for i := range docs {
		d := &docs[i]
		cmd.Printf("  %s\n", d.DocumentID)
		cmd.Printf("    Name:   %s\n", d.DocumentName)
		cmd.Printf("    Index:  %s (%d chunks)\n", d.IndexName, d.ChunkCount)
		cmd.Printf("    Turns:  %d\n", d.Turns())
		if d.ObjectURL != "" {
			cmd.Printf("    Stored: %s\n", d.ObjectURL)
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	conv, err := conversationService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load history: %w", describeError(err))
	}

	if historyJSON {
		msgs := conv.History
		if msgs == nil {
			msgs = []domain.Message{}
		}
		return writeJSON(cmd, msgs)
	}

	cmd.Printf("%s (%s)\n\n", conv.DocumentName, conv.DocumentID)
	if len(conv.History) == 0 {
		cmd.Println("No questions asked yet.")
		return nil
	}
	for _, m := range conv.History {
		switch m.Role {
		case domain.RoleUser:
			cmd.Printf("You: %s\n", m.Content)
		case domain.RoleAssistant:
			cmd.Printf("Assistant: %s\n\n", m.Content)
		case domain.RoleSystem:
		}
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
