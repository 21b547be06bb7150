package main

import (
	"os"

	"github.com/aretw0/talentscout/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [session-id]",
	Short: "Print the screening flow as a Mermaid diagram",
	Long:  `Prints a Mermaid flowchart of the screening flow. With a session ID, the visited path and current step are highlighted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := ""
		if len(args) == 1 {
			sessionID = args[0]
		}
		return withComponents(cmd, func(comps *cli.Components, _ cli.ServeOptions) error {
			return cli.PrintGraph(cmd.Context(), comps, sessionID, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
