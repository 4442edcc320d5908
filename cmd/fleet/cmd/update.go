/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/fleetdb/pkg/controller"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <plate>",
	Short: "Update a vehicle",
	Long: `Update a registered vehicle. Only the fields given as flags change; the
plate never does. Changing --kind replaces the record with one of the new kind,
so the matching variant flag must be given as well.

Examples:
  fleet update ABC123 --weight 1350
  fleet update ABC123 --kind truck --cargo 800`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controllerFrom(cmd)
		if err != nil {
			return err
		}

		existing, err := ctrl.Get(args[0])
		if err != nil {
			return err
		}

		form := controller.FormFor(existing)
		if cmd.Flags().Changed("kind") {
			// variant fields of the old kind do not carry over
			form.Style, form.Displacement, form.Cargo = "", "", ""
		}
		applyVehicleFlags(cmd.Flags(), &form)

		updated, err := ctrl.Update(existing.Plate, form)
		if err != nil {
			return err
		}

		if format == "json" {
			if err := writeJSON(cmd.OutOrStdout(), updated); err != nil {
				return err
			}
		} else {
			cmd.Println(successStyle.Render(fmt.Sprintf("✅ updated %s %s", updated.Kind(), updated.Plate)))
		}
		return persist(cmd, ctrl)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().String("kind", "", "New vehicle kind")
	addVehicleFlags(updateCmd)
}
