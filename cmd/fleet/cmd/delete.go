/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <plate>",
	Short: "Delete a vehicle",
	Long: `Delete the vehicle registered under a plate and save the snapshot.
Asks for confirmation unless --yes is given.

Example:
  fleet delete ABC123 --yes`,
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

		if !deleteYes {
			cmd.Printf("Delete %s %s (%s %s)? [y/N]: ", v.Kind(), v.Plate, v.Make, v.Model)
			response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				cmd.Println("Deletion cancelled")
				return nil
			}
		}

		if err := ctrl.Delete(v.Plate); err != nil {
			return err
		}

		if format == "json" {
			if err := writeJSON(cmd.OutOrStdout(), map[string]string{"deleted": v.Plate}); err != nil {
				return err
			}
		} else {
			cmd.Println(successStyle.Render(fmt.Sprintf("✅ deleted %s", v.Plate)))
		}
		return persist(cmd, ctrl)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
