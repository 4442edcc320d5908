/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ssargent/fleetdb/pkg/controller"
	"github.com/ssargent/fleetdb/pkg/store"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <kind> <plate>",
	Short: "Register a vehicle",
	Long: `Register a new vehicle. Kind is car, motorcycle or truck (the Spanish
labels automóvil, motocicleta and camión are accepted too). Plates are unique
regardless of case. The snapshot is saved after the vehicle is added.

Examples:
  fleet add car ABC123 --make Mazda --model 3 --weight 1300 --style sedan
  fleet add motorcycle MOT1 --make Yamaha --model MT-07 --weight 184 --displacement 689
  fleet add truck TRK1 --make Volvo --model FH16 --weight 9000 --cargo 25000`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controllerFrom(cmd)
		if err != nil {
			return err
		}

		form := controller.Form{Kind: args[0], Plate: args[1]}
		applyVehicleFlags(cmd.Flags(), &form)

		v, res, err := ctrl.Create(form)
		if err != nil {
			return err
		}

		if format == "json" {
			if err := writeJSON(cmd.OutOrStdout(), map[string]any{"result": res.String(), "vehicle": v}); err != nil {
				return err
			}
		} else {
			msg := fmt.Sprintf("✅ %s %s %s", v.Kind(), v.Plate, res)
			if res == store.InsertedAfterGrowth {
				msg += fmt.Sprintf(" (capacity now %d)", ctrl.Stats().Capacity)
			}
			cmd.Println(successStyle.Render(msg))
		}
		return persist(cmd, ctrl)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addVehicleFlags(addCmd)
}

// addVehicleFlags registers the record field flags shared by add and update
func addVehicleFlags(c *cobra.Command) {
	c.Flags().String("make", "", "Manufacturer")
	c.Flags().String("model", "", "Model name")
	c.Flags().String("weight", "", "Weight in kg")
	c.Flags().String("style", "", "Body style (cars)")
	c.Flags().String("displacement", "", "Engine displacement in cc (motorcycles)")
	c.Flags().String("cargo", "", "Cargo capacity in kg (trucks)")
}

// applyVehicleFlags copies every flag the user set onto the form
func applyVehicleFlags(flags *pflag.FlagSet, form *controller.Form) {
	fields := map[string]*string{
		"kind":         &form.Kind,
		"make":         &form.Make,
		"model":        &form.Model,
		"weight":       &form.Weight,
		"style":        &form.Style,
		"displacement": &form.Displacement,
		"cargo":        &form.Cargo,
	}
	// Visit also reports flags set by an earlier run of a reused FlagSet
	flags.VisitAll(func(f *pflag.Flag) {
		if dst, ok := fields[f.Name]; ok && f.Changed {
			*dst = f.Value.String()
		}
	})
}
