// Krakenctl controls NZXT Kraken X3 liquid coolers over USB HID.
//
// It sets ring and logo lighting, pump duty and temperature curves, reads
// liquid temperature and pump speed, and can serve that telemetry to other
// machines over WebSocket and MQTT.
//
// Usage:
//
//	krakenctl [command] [flags]
//
// Logging is silent unless --log-level or KRAKENCTL_LOG_LEVEL is set.
// See 'krakenctl --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/krakenctl/internal/config"
	"github.com/muurk/krakenctl/internal/device"
	"github.com/muurk/krakenctl/internal/logging"
	"github.com/muurk/krakenctl/internal/ui"
	"github.com/muurk/krakenctl/internal/version"
)

// Global flags
var (
	logLevel   string
	configFile string
	opTimeout  time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "krakenctl",
	Short: "NZXT Kraken X3 cooler control",
	Long: `Control an NZXT Kraken X3 AIO liquid cooler.

Sets lighting effects on the ring and logo, fixes the pump duty or uploads
a temperature curve, reports liquid temperature and pump speed, and serves
live telemetry over WebSocket, mDNS and MQTT.`,
	Version: version.Version,
	Example: `  # Show liquid temperature and pump speed
  krakenctl status

  # Solid red ring
  krakenctl color ring fixed ff0000

  # Pump curve
  krakenctl pump profile 20:30 40:60 50:100`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides KRAKENCTL_LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/krakenctl/config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&opTimeout, "timeout", 10*time.Second, "Timeout for device operations")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("krakenctl %s\n", version.Full())
	},
}

// loadConfig reads --config or the default registry.
func loadConfig() (*config.Registry, error) {
	if configFile != "" {
		return config.LoadFrom(configFile)
	}
	return config.LoadRegistry()
}

func saveConfig(reg *config.Registry) error {
	if configFile != "" {
		return reg.SaveTo(configFile)
	}
	return reg.Save()
}

// operationContext bounds a single command by --timeout.
func operationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// openSession opens the configured cooler and completes the handshake.
func openSession(ctx context.Context, reg *config.Registry) (*device.Session, error) {
	vid, pid := reg.DeviceIDs()
	open := func(uint16, uint16) (device.Transport, error) {
		return device.OpenHID(vid, pid)
	}
	return device.OpenWith(ctx, open, reg.DeviceOptions())
}

// withSession loads config, opens the cooler, runs fn and closes the
// session. Device failures are rendered with troubleshooting hints.
func withSession(cmd *cobra.Command, title string, fn func(ctx context.Context, s *device.Session) error) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(os.Stdout)

	reg, err := loadConfig()
	if err != nil {
		printer.PrintError("Could not load configuration", err, []string{
			"Check the YAML syntax of the config file",
			"Run with --config to point at another file",
		})
		return err
	}

	ctx, cancel := operationContext()
	defer cancel()

	session, err := openSession(ctx, reg)
	if err != nil {
		printer.PrintDeviceError("Could not open cooler", err)
		return err
	}
	defer func() { _ = session.Close() }()

	if err := fn(ctx, session); err != nil {
		printer.PrintDeviceError(title, err)
		return err
	}
	return nil
}
