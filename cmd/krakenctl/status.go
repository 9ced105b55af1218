package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/krakenctl/internal/device"
	"github.com/muurk/krakenctl/internal/telemetry"
	"github.com/muurk/krakenctl/internal/ui"
)

var (
	jsonOutput      bool
	monitorInterval time.Duration
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(monitorCmd)

	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", time.Second, "Poll interval")
}

// listCmd enumerates attached coolers
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List attached Kraken coolers",
	Long: `List USB HID devices matching the configured vendor and product IDs.

No handshake is performed, so this also works while another program has
the cooler open.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(os.Stdout)

	reg, err := loadConfig()
	if err != nil {
		return err
	}
	vid, pid := reg.DeviceIDs()

	infos, err := device.List(vid, pid)
	if err != nil {
		printer.PrintDeviceError("Enumeration failed", err)
		return err
	}

	if jsonOutput {
		return printJSON(infos)
	}

	if len(infos) == 0 {
		printer.PrintDeviceError("No coolers found", device.NewNotFoundError(vid, pid))
		return nil
	}

	printer.PrintHeader("Attached coolers", "list",
		ui.Param{Key: "Vendor", Value: fmt.Sprintf("0x%04x", vid)},
		ui.Param{Key: "Product", Value: fmt.Sprintf("0x%04x", pid)},
	)
	for i, info := range infos {
		printer.Println(fmt.Sprintf("%d. %s", i+1, info.String()))
		if info.Serial != "" {
			printer.Println("   Serial:    " + info.Serial)
		}
		printer.Println("   Interface: " + strconv.Itoa(info.Interface))
	}
	return nil
}

// statusCmd reads one status report
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show liquid temperature and pump speed",
	Example: `  krakenctl status
  krakenctl status --json`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withSession(cmd, "Status read failed", func(ctx context.Context, s *device.Session) error {
		st, err := s.Status(ctx)
		if err != nil {
			return err
		}
		firmware := s.FirmwareVersion().String()
		if jsonOutput {
			return printJSON(telemetry.NewReading(st, firmware, time.Now()))
		}
		ui.NewPrinter(os.Stdout).PrintStatus(st, firmware)
		return nil
	})
}

// monitorCmd runs the live status TUI
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live liquid temperature and pump view",
	Long: `Poll the cooler and redraw the status panel until q is pressed.

The panel tracks the lowest and highest liquid temperature seen during the
session.`,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(os.Stdout)

	reg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := operationContext()
	session, err := openSession(ctx, reg)
	cancel()
	if err != nil {
		printer.PrintDeviceError("Could not open cooler", err)
		return err
	}
	defer func() { _ = session.Close() }()

	return ui.RunMonitor(session.Status, monitorInterval, session.FirmwareVersion().String())
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
