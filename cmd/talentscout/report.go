package main

import (
	"os"

	"github.com/aretw0/talentscout/internal/cli"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Print the report of a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markdown, _ := cmd.Flags().GetBool("markdown")
		return withComponents(cmd, func(comps *cli.Components, _ cli.ServeOptions) error {
			return cli.PrintReport(cmd.Context(), comps, args[0], markdown, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolP("markdown", "m", false, "Render the report as Markdown")
}
