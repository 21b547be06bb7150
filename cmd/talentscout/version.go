package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/talentscout"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of talentscout",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("talentscout version %s\n", strings.TrimSpace(talentscout.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
