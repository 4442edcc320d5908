/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <plate>",
	Short: "Show a vehicle",
	Long: `Show the vehicle registered under a plate. The lookup ignores case.

Example:
  fleet get abc123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controllerFrom(cmd)
		if err != nil {
			return err
		}

		v, err := ctrl.Get(args[0])
		if err != nil {
			return err
		}
		return outputVehicle(cmd.OutOrStdout(), v)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
