package main

import (
	"fmt"
	"os"

	"github.com/aretw0/talentscout/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored screening sessions",
	Long:  `List, inspect, and remove sessions kept by the configured storage backend.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withComponents(cmd, func(comps *cli.Components, _ cli.ServeOptions) error {
			return cli.ListSessions(cmd.Context(), comps, os.Stdout)
		})
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the stored state of a session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withComponents(cmd, func(comps *cli.Components, _ cli.ServeOptions) error {
			return cli.InspectSession(cmd.Context(), comps, args[0], os.Stdout)
		})
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withComponents(cmd, func(comps *cli.Components, _ cli.ServeOptions) error {
			failed := 0
			for _, id := range args {
				if err := cli.RemoveSession(cmd.Context(), comps, id, os.Stdout); err != nil {
					fmt.Fprintln(os.Stderr, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d session(s) could not be removed", failed)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
