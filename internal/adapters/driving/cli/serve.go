package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driving/mcp"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

var servePort int

var serveCmd = withApp(&cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default)
  codewiki-mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  codewiki-mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "codewiki": {
        "command": "/path/to/codewiki-mcp",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
})

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(a.Ports(), mcp.Options{HardTimeout: a.HardTimeout})
	if err != nil {
		return err
	}

	if servePort > 0 {
		addr := fmt.Sprintf(":%d", servePort)
		logger.Info("MCP server listening on http://localhost%s", addr)
		err = server.RunHTTP(cmd.Context(), addr)
	} else {
		logger.Info("MCP server running on stdio")
		err = server.Run(cmd.Context())
	}

	// A signal ends the server normally.
	if errors.Is(err, context.Canceled) {
		logger.Info("MCP server stopped")
		return nil
	}
	return err
}
