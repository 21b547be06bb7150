package main

import (
	"os"

	"github.com/aretw0/talentscout/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive screening in the terminal",
	Long: `Starts a screening session on stdin/stdout.
Type 'exit' (or press Ctrl+C) at any time to end the session; the partial report is still written.
With --session the session is stored and can be resumed later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		jsonMode, _ := cmd.Flags().GetBool("json")
		fresh, _ := cmd.Flags().GetBool("fresh")
		quiet, _ := cmd.Flags().GetBool("quiet")

		return withComponents(cmd, func(comps *cli.Components, _ cli.ServeOptions) error {
			return cli.RunSession(cmd.Context(), comps, cli.RunOptions{
				SessionID: sessionID,
				JSON:      jsonMode,
				Fresh:     fresh,
				Quiet:     quiet,
			}, os.Stdin, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("session", "s", "", "Session ID to resume or create")
	runCmd.Flags().Bool("json", false, "Exchange NDJSON actions and inputs instead of text")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner and status lines")
}
