package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toonlab/toon/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for TOON digests",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants read structural digests of your Python codebase.

The MCP server:
- Serves digests from the .toon/toon.db store
- Recomputes a digest on demand when the source file has changed
- Communicates via stdio (standard MCP transport)

Example:
  toon mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Load configuration from .toon/config.yml (or the --config file)
	cfg, err := loadProjectConfig(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Toon MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project Root: %s\n\n", rootDir)

	server, err := mcp.NewServer(rootDir, cfg, Version)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	// Serve (blocks until shutdown)
	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
