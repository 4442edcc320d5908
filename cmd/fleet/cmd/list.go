/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

var listKind string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List vehicles",
	Long: `List registered vehicles in storage order, optionally only those of one
kind. Filtering matches the exact kind.

Examples:
  fleet list
  fleet list --kind truck
  fleet list -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controllerFrom(cmd)
		if err != nil {
			return err
		}

		vehicles, err := ctrl.List(listKind)
		if err != nil {
			return err
		}
		return outputVehicles(cmd.OutOrStdout(), vehicles)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listKind, "kind", "k", "all", "Kind to list (all, car, motorcycle, truck)")
}
