package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leofalp/ragcalc/internal/mcpserver"
	"github.com/leofalp/ragcalc/providers/observability"
)

// NewMCPCmd creates the mcp command.
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tools over MCP",
		Long: `Start an MCP (Model Context Protocol) server on stdio.

LLM agents connected to it can call the arithmetic tools and the lookup
tool directly. The corpus is embedded once at startup, so the configured
provider credentials are still required.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Register with an MCP client:
  # {
  #   "mcpServers": {
  #     "ragcalc": {
  #       "command": "ragcalc",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, observer, err := buildApp(ctx, cmd)
	if err != nil {
		return err
	}

	s := mcpserver.New(application.Tools, versionInfo.Version)
	observer.Info(ctx, "MCP server starting on stdio",
		observability.Int("tools", application.Tools.Size()),
	)

	if err := mcpserver.Serve(ctx, s); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}
	observer.Info(ctx, "MCP server stopped")
	return nil
}
