package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docu-cli/internal/adapters/driving/api"
)

var (
	serveAddr    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serves a JSON API for uploading documents and chatting with them.

Endpoints:
  POST /api/documents                 upload (multipart "file", ?summarize=true)
  GET  /api/documents                 list documents
  GET  /api/documents/:id             document details
  GET  /api/documents/:id/messages    conversation history
  POST /api/documents/:id/messages    ask {"question": "..."}
  POST /api/documents/:id/summary     sectioned summary`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "allowed CORS origin (repeatable, default any)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	server, err := api.NewServer(&api.Ports{
		Pipeline:      pipelineService,
		Conversations: conversationService,
	}, api.WithAllowedOrigins(serveOrigins...))
	if err != nil {
		return err
	}

	cmd.PrintErrf("docu API listening on %s\n", serveAddr)
	return server.Run(cmd.Context(), serveAddr)
}
