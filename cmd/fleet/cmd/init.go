/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/fleetdb/pkg/blob"
	"github.com/ssargent/fleetdb/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a configuration file with a freshly generated client API key and
prepare the data directory.

This command will:
- Write the config file (default: ~/.config/fleet/config.yaml)
- Generate the API key required by 'fleet serve'
- Create the data directory for the file storage driver

Examples:
  fleet init
  fleet init --config ./fleet.yaml --data-dir ./data --print-keys`,
	PersistentPreRunE: skipSetup,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		printKeys, _ := cmd.Flags().GetBool("print-keys")

		cfg, created, err := initializeConfig(configPath, dataDir, force)
		if err != nil {
			return err
		}

		if !created {
			cmd.Printf("Configuration already exists at %s. Use --force to regenerate it.\n", configPath)
			return nil
		}

		cmd.Printf("✅ Configuration created at %s\n", configPath)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("Snapshot file: %s\n", cfg.FileName)
		if printKeys {
			cmd.Printf("Client API key: %s\n", cfg.Security.ClientAPIKey)
		}
		cmd.Printf("\nYou can now start the server with:\n")
		cmd.Printf("  fleet serve --config %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	initCmd.Flags().Bool("print-keys", false, "Print the generated API key")
}

// initializeConfig bootstraps a config at path unless one exists and force
// is false. It reports whether a new file was written.
func initializeConfig(path, dir string, force bool) (*config.Config, bool, error) {
	if config.ConfigExists(path) && !force {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load existing config: %w", err)
		}
		return cfg, false, nil
	}

	cfg, err := config.BootstrapConfig(path, dir)
	if err != nil {
		return nil, false, err
	}

	if blob.Driver(cfg.Storage.Driver) == blob.DriverFile {
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return nil, false, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return cfg, true, nil
}
