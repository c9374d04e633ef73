package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docu-cli/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ingest,
query and summarize documents.

By default, the server communicates over stdio using JSON-RPC. Use --http
to serve the streamable HTTP transport instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  docu mcp

  # HTTP mode (for MCP Inspector, remote access)
  docu mcp --http :8081

Assistant configuration:
  {
    "mcpServers": {
      "docu": {
        "command": "/path/to/docu",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "HTTP listen address (empty = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Pipeline:      pipelineService,
		Conversations: conversationService,
	})
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		cmd.PrintErrf("MCP server listening on %s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}
	return server.Run(cmd.Context())
}
