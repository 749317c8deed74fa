package cmd

import (
	"github.com/huangsam/repostat/internal/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the repostat MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents analyze repositories and read saved analyses.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol
		viper.Set("quiet", true)
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
