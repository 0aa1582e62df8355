package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecseed/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes these tools:
  search      - query an existing collection (read-only)
  count       - count the documents in a collection
  ingest_url  - crawl a website and append it to a collection
                (only with --allow-ingest)

Tools always use the index given by --index-uri, or the settings default.

and the vecseed://runs resource listing recent ingestion runs.

By default, the server communicates over stdio using JSON-RPC.
Use --http to serve over HTTP instead.

Examples:
  # Stdio mode (default)
  vecseed mcp serve --collection docs

  # HTTP mode (for MCP Inspector, remote access)
  vecseed mcp serve --http :8080

  # Let assistants seed collections from websites
  vecseed mcp serve --collection docs --allow-ingest`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().String("http", "", "HTTP listen address (empty = use stdio)")
	mcpServeCmd.Flags().StringP("collection", "c", "", "collection used when a tool call names none")
	mcpServeCmd.Flags().String("index-uri", "", "vector index URI (default from settings)")
	mcpServeCmd.Flags().Bool("allow-ingest", false, "expose the ingest_url tool")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}
	collection, err := cmd.Flags().GetString("collection")
	if err != nil {
		return fmt.Errorf("getting collection flag: %w", err)
	}
	indexURI, err := cmd.Flags().GetString("index-uri")
	if err != nil {
		return fmt.Errorf("getting index-uri flag: %w", err)
	}
	allowIngest, err := cmd.Flags().GetBool("allow-ingest")
	if err != nil {
		return fmt.Errorf("getting allow-ingest flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Ingestion:         ingestionService,
		DefaultCollection: collection,
		IndexURI:          indexURI,
		AllowIngest:       allowIngest,
	})
	if err != nil {
		return err
	}

	if addr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
