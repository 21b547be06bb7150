package main

import (
	"github.com/aretw0/talentscout/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes screening sessions as MCP tools (start_screening, get_screening,
submit_input, exit_screening) so an agent can drive an interview.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Logs go to stderr.
- sse: Uses Server-Sent Events over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		return withComponents(cmd, func(comps *cli.Components, opts cli.ServeOptions) error {
			return cli.ServeMCP(cmd.Context(), comps, transport, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
