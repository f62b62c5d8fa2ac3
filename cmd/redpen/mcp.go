package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redpen-dev/redpen/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run redpen as an MCP (Model Context Protocol) server",
		Long: `Start an MCP server that exposes redpen functionality over stdio.

AI tools connected over MCP can invoke:

  • redpen_correct - Grade an essay and return structured feedback
  • redpen_align   - Locate annotation spans in an edited essay
  • redpen_lookup  - Dictionary lookup for an English word

The server communicates via JSON-RPC 2.0 over stdin/stdout, following
the Model Context Protocol specification.

Example configuration for an MCP client:

  {
    "mcpServers": {
      "redpen": {
        "command": "redpen",
        "args": ["mcp-server"]
      }
    }
  }
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(&mcp.Config{
				Name:     "redpen",
				Version:  version,
				DBPath:   cfg.DBPath,
				Provider: cfg.ProviderClientConfig(),
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			defer server.Close()

			if err := server.Run(cmd.Context()); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}
}
