package main

import (
	"github.com/aretw0/talentscout/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	Long: `Exposes screening sessions over a JSON API:

  POST /sessions, GET /sessions, GET|DELETE /sessions/{id},
  POST /sessions/{id}/input, POST /sessions/{id}/exit,
  GET /sessions/{id}/ws, GET /health, GET /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withComponents(cmd, func(comps *cli.Components, opts cli.ServeOptions) error {
			return cli.Serve(cmd.Context(), comps, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides server.port)")
}
