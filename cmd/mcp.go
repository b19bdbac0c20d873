package cmd

import (
	"github.com/huangsam/chartmap/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the chartmap MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents inspect segment caches,
refine single pixels and query run history via standard tools.

Tools: inspect_row, refine_vector, run_status, list_runs`,
	Args: cobra.NoArgs,
	// Logging goes to stderr, so stdout stays clean for the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
