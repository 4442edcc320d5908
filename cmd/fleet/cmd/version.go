/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ssargent/fleetdb/pkg/codec"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: skipSetup,
	Args:              cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("fleet %s (snapshot format v%d, %s)\n", Version, codec.Version, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
