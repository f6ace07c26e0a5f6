package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is the current taskflow version (overridden by ldflags).
	Version = "1.1.0"
	// Build can be set via ldflags at compile time.
	Build = "dev"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print version information",
	GroupID: "setup",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taskflow version %s (%s)\n", Version, Build)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
