/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/fleetdb/pkg/blob"
	"github.com/ssargent/fleetdb/pkg/config"
	"github.com/ssargent/fleetdb/pkg/controller"
	"github.com/ssargent/fleetdb/pkg/logging"
)

type contextKey string

const (
	controllerKey contextKey = "controller"
	configKey     contextKey = "config"
)

// ownsLoadAnnotation marks commands that read the snapshot themselves, so
// setup skips its startup load
const ownsLoadAnnotation = "fleet/owns-load"

// Global flags shared by every subcommand
var (
	configPath string
	dataDir    string
	fileName   string
	format     string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fleet",
	Short: "FleetDB - vehicle registry",
	Long: `FleetDB keeps a registry of cars, motorcycles and trucks keyed by
licence plate and persists it as a single binary snapshot, either in a
local data directory or in an S3 bucket.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.GetDefaultConfigPath(), "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory for snapshots (overrides config)")
	rootCmd.PersistentFlags().StringVar(&fileName, "file", "", "Snapshot file loaded at startup and saved after changes (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", "table", "Output format (table or json)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output")
}

// setup loads configuration, builds the controller and restores the
// configured snapshot before any command runs
func setup(cmd *cobra.Command, args []string) error {
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown output format %q (want table or json)", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if !quiet {
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to configure logging: %w", err)
		}
	}
	logging.SetRoot(logger)

	if container == nil {
		return fmt.Errorf("dependency container not initialized")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ctrl, err := container.GetControllerFactory().CreateController(ctx, cfg, logging.Logger("controller"))
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}

	if cmd.Annotations[ownsLoadAnnotation] == "" {
		if _, err := ctrl.Load(ctx); err != nil && !errors.Is(err, blob.ErrNotFound) {
			return fmt.Errorf("failed to load %s: %w", cfg.FileName, err)
		}
	}

	ctx = context.WithValue(ctx, configKey, cfg)
	cmd.SetContext(context.WithValue(ctx, controllerKey, ctrl))
	return nil
}

// loadConfig reads the config file when present and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if fileName != "" {
		cfg.FileName = fileName
	}
	return cfg, nil
}

// skipSetup is used by commands that must run without a controller
func skipSetup(cmd *cobra.Command, args []string) error {
	return nil
}

func controllerFrom(cmd *cobra.Command) (*controller.Controller, error) {
	ctrl, ok := cmd.Context().Value(controllerKey).(*controller.Controller)
	if !ok {
		return nil, fmt.Errorf("controller not found in context")
	}
	return ctrl, nil
}

func configFrom(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("config not found in context")
	}
	return cfg, nil
}

// persist saves the store after a successful mutation
func persist(cmd *cobra.Command, ctrl *controller.Controller) error {
	res, err := ctrl.Save(cmd.Context())
	if err != nil {
		return fmt.Errorf("record changed but saving %s failed: %w", ctrl.FileName(), err)
	}
	if format == "table" {
		cmd.Println(dimStyle.Render(fmt.Sprintf("saved %d records to %s", res.Records, res.Name)))
	}
	return nil
}
