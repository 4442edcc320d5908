/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/ssargent/fleetdb/pkg/config"
)

const serviceName = "fleet.service"

// unitDir is where systemd unit files are installed
var unitDir = "/etc/systemd/system"

// runSystemctl runs systemctl; replaced in tests
var runSystemctl = func(args ...string) error {
	c := exec.Command("systemctl", args...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=FleetDB vehicle registry API
After=network-online.target
Wants=network-online.target

[Service]
User={{.User}}
Group={{.User}}
ExecStart={{.Binary}} serve --config {{.ConfigPath}}
Restart=on-failure
NoNewPrivileges=true
UMask=0077
{{- if .DataDir}}
ReadWritePaths={{.DataDir}}
{{- end}}
ReadWritePaths={{.ConfigDir}}

[Install]
WantedBy=multi-user.target
`))

type unitParams struct {
	User       string
	Binary     string
	ConfigPath string
	ConfigDir  string
	DataDir    string
}

// serviceCmd represents the service command
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage FleetDB as a systemd service",
	Long: `Manage 'fleet serve' as a systemd service for long-running deployments.
The unit restarts the server on failure; snapshots are saved on every stop.`,
	PersistentPreRunE: skipSetup,
}

// installServiceCmd represents the service install command
var installServiceCmd = &cobra.Command{
	Use:   "install",
	Short: "Install FleetDB as a systemd service",
	Long: `Install FleetDB as a systemd service.

This will:
- Create a configuration with a generated API key if none exists
- Write the systemd unit file
- Enable and optionally start the service

Examples:
  sudo fleet service install
  sudo fleet service install --config /etc/fleet/config.yaml --data-dir /var/lib/fleet --user fleet`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		binary, _ := cmd.Flags().GetString("binary")
		startNow, _ := cmd.Flags().GetBool("start")

		if os.Geteuid() != 0 {
			return fmt.Errorf("service install requires root privileges (run with sudo)")
		}

		cfg, created, err := initializeConfig(configPath, dataDir, false)
		if err != nil {
			return err
		}
		if created {
			cmd.Printf("✅ Created new configuration at %s\n", configPath)
		} else {
			cmd.Printf("✅ Using existing configuration at %s\n", configPath)
		}

		unitPath, err := writeUnit(cfg, configPath, user, binary)
		if err != nil {
			return fmt.Errorf("failed to write unit file: %w", err)
		}
		cmd.Printf("✅ Unit written to %s\n", unitPath)

		if err := runSystemctl("daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}
		if err := runSystemctl("enable", serviceName); err != nil {
			return fmt.Errorf("failed to enable service: %w", err)
		}
		if startNow {
			if err := runSystemctl("start", serviceName); err != nil {
				return fmt.Errorf("failed to start service: %w", err)
			}
			cmd.Printf("✅ Service started\n")
		}

		cmd.Printf("\nService: %s\nPort: %d\n", serviceName, cfg.Port)
		cmd.Printf("To view logs: sudo journalctl -u %s -f\n", serviceName)
		return nil
	},
}

// uninstallServiceCmd represents the service uninstall command
var uninstallServiceCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the FleetDB service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Geteuid() != 0 {
			return fmt.Errorf("service uninstall requires root privileges (run with sudo)")
		}

		_ = runSystemctl("stop", serviceName)
		if err := runSystemctl("disable", serviceName); err != nil {
			cmd.Printf("Warning: could not disable service: %v\n", err)
		}

		if err := os.Remove(filepath.Join(unitDir, serviceName)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove unit file: %w", err)
		}
		if err := runSystemctl("daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}

		cmd.Printf("✅ FleetDB service uninstalled\n")
		cmd.Printf("Note: configuration and snapshots were not removed\n")
		return nil
	},
}

// systemctlCmd builds a subcommand that forwards an action to systemctl
func systemctlCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runSystemctl(action, serviceName); err != nil {
				return fmt.Errorf("systemctl %s failed: %w", action, err)
			}
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(serviceCmd)

	serviceCmd.AddCommand(installServiceCmd)
	serviceCmd.AddCommand(uninstallServiceCmd)
	serviceCmd.AddCommand(systemctlCmd("start", "Start the FleetDB service"))
	serviceCmd.AddCommand(systemctlCmd("stop", "Stop the FleetDB service"))
	serviceCmd.AddCommand(systemctlCmd("restart", "Restart the FleetDB service"))
	serviceCmd.AddCommand(systemctlCmd("status", "Show FleetDB service status"))

	installServiceCmd.Flags().String("user", "fleet", "User to run the service as")
	installServiceCmd.Flags().String("binary", "/usr/local/bin/fleet", "Path of the installed fleet binary")
	installServiceCmd.Flags().Bool("start", true, "Start the service after installation")
}

// renderUnit produces the systemd unit for cfg
func renderUnit(cfg *config.Config, configPath, user, binary string) (string, error) {
	params := unitParams{
		User:       user,
		Binary:     binary,
		ConfigPath: configPath,
		ConfigDir:  filepath.Dir(configPath),
	}
	// the s3 driver writes nothing locally
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "file" {
		params.DataDir = cfg.DataDir
	}

	var buf bytes.Buffer
	if err := unitTemplate.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeUnit renders and installs the unit file, returning its path
func writeUnit(cfg *config.Config, configPath, user, binary string) (string, error) {
	content, err := renderUnit(cfg, configPath, user, binary)
	if err != nil {
		return "", err
	}
	unitPath := filepath.Join(unitDir, serviceName)
	if err := os.WriteFile(unitPath, []byte(content), 0600); err != nil {
		return "", err
	}
	return unitPath, nil
}
