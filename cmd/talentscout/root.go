package main

import (
	"fmt"
	"os"

	"github.com/aretw0/talentscout/internal/cli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talentscout",
	Short: "TalentScout is a hiring assistant for initial candidate screening",
	Long: `TalentScout collects a candidate's details, asks an LLM for five tailored
multiple-choice questions and records the answers in a report.

Configuration is read from talentscout.yaml (or --config), then from
TALENTSCOUT_<SECTION>_<KEY> environment variables. A .env file in the
working directory is loaded first.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file (default talentscout.yaml if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

func globalOptions(cmd *cobra.Command) cli.Options {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{ConfigPath: path, Debug: debug}
}

// withComponents builds the engine for one command and closes it afterwards.
func withComponents(cmd *cobra.Command, fn func(*cli.Components, cli.ServeOptions) error) error {
	cfg, comps, err := cli.Setup(cmd.Context(), globalOptions(cmd))
	if err != nil {
		return err
	}
	defer comps.Close()

	opts := cli.ServeOptions{Port: cfg.Server.Port, ShutdownTimeout: cfg.Server.ShutdownTimeout}
	if cmd.Flags().Lookup("port") != nil && cmd.Flags().Changed("port") {
		opts.Port, _ = cmd.Flags().GetInt("port")
	}
	return fn(comps, opts)
}
