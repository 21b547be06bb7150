package main

import (
	"fmt"

	"github.com/aretw0/talentscout/internal/cli"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(globalOptions(cmd))
		if err != nil {
			return err
		}
		out, err := cfg.Redacted().YAML()
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
