/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/fleetdb/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the FleetDB REST API server. Requests under /api/v1 must carry the
client API key from the config file in the X-API-Key header; /metrics and
/swagger are open. The snapshot is loaded at startup and, unless
--save-on-exit=false, saved again on shutdown.

Examples:
  fleet serve
  fleet serve --port 9000 --bind 0.0.0.0`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFrom(cmd)
		if err != nil {
			return err
		}
		ctrl, err := controllerFrom(cmd)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		saveOnExit, _ := cmd.Flags().GetBool("save-on-exit")

		apiKey := cfg.Security.ClientAPIKey
		if apiKey == "" || apiKey == "auto" {
			return fmt.Errorf("no client API key configured (run 'fleet init' first)")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cmd.Printf("🚀 Starting FleetDB server on %s:%d\n", cfg.Bind, cfg.Port)
		cmd.Printf("📁 Snapshot: %s (%s)\n", ctrl.FileName(), cfg.Storage.Driver)

		starter := container.GetServerFactory().CreateServerStarter()
		serveErr := starter.StartServer(ctx, ctrl, api.ServerConfig{
			Port:   cfg.Port,
			Bind:   cfg.Bind,
			APIKey: apiKey,
		})
		if serveErr != nil {
			return fmt.Errorf("server stopped: %w", serveErr)
		}

		if saveOnExit {
			res, err := ctrl.Save(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to save on shutdown: %w", err)
			}
			cmd.Printf("Saved %d records to %s\n", res.Records, res.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to (overrides config)")
	serveCmd.Flags().Bool("save-on-exit", true, "Save the snapshot when the server stops")
}
