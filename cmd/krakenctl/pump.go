package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/krakenctl/internal/device"
	"github.com/muurk/krakenctl/internal/protocol"
	"github.com/muurk/krakenctl/internal/ui"
)

// lowDutyThreshold is the fixed duty below which the user must confirm.
const lowDutyThreshold = 50

var (
	assumeYes  bool
	saveCurve  bool
	fromConfig bool
)

func init() {
	rootCmd.AddCommand(pumpCmd)
	pumpCmd.AddCommand(pumpDutyCmd)
	pumpCmd.AddCommand(pumpProfileCmd)

	pumpDutyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the low duty confirmation")
	pumpProfileCmd.Flags().BoolVar(&saveCurve, "save", false, "Store the curve in the config file")
	pumpProfileCmd.Flags().BoolVar(&fromConfig, "from-config", false, "Upload the curve stored in the config file")
}

var pumpCmd = &cobra.Command{
	Use:   "pump",
	Short: "Set pump duty or temperature curve",
}

var pumpDutyCmd = &cobra.Command{
	Use:   "duty <percent>",
	Short: "Hold the pump at a fixed duty",
	Long: `Hold the pump at a fixed duty regardless of liquid temperature.

Duties are clamped to the pump's 20-100% range, and the cooler still runs
at 100% once the liquid reaches 59 °C. Duties below 50% ask for
confirmation unless --yes is given.`,
	Example: `  krakenctl pump duty 70
  krakenctl pump duty 30 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runPumpDuty,
}

func runPumpDuty(cmd *cobra.Command, args []string) error {
	duty, err := strconv.Atoi(strings.TrimSuffix(args[0], "%"))
	if err != nil || duty < 0 || duty > 100 {
		return fmt.Errorf("invalid duty %q: want a percentage 0-100", args[0])
	}

	if duty < lowDutyThreshold && !assumeYes {
		if !ui.LowPumpDutyConfirmation(os.Stdin, os.Stdout, duty) {
			cmd.SilenceUsage = true
			return fmt.Errorf("cancelled")
		}
	}

	return withSession(cmd, "Pump update failed", func(ctx context.Context, s *device.Session) error {
		if err := s.SetPumpDuty(ctx, duty); err != nil {
			return err
		}
		ui.NewPrinter(os.Stdout).PrintSuccess("Pump duty set",
			ui.Param{Key: "Duty", Value: fmt.Sprintf("%d%%", duty)},
		)
		return nil
	})
}

var pumpProfileCmd = &cobra.Command{
	Use:   "profile [temp:duty...]",
	Short: "Upload a temperature to duty curve",
	Long: `Upload a pump curve given as temperature:duty pairs in °C and percent.

Temperatures must increase. The curve is interpolated for every degree from
20 °C to 59 °C; below the first point and above the last the duty is held
flat, and 59 °C always runs at 100%.`,
	Example: `  krakenctl pump profile 20:30 35:50 45:80 55:100
  krakenctl pump profile 20:40 50:100 --save
  krakenctl pump profile --from-config`,
	RunE: runPumpProfile,
}

func runPumpProfile(cmd *cobra.Command, args []string) error {
	reg, err := loadConfig()
	if err != nil {
		return err
	}

	var points []protocol.CurvePoint
	switch {
	case fromConfig:
		if len(args) > 0 {
			return fmt.Errorf("--from-config takes no curve arguments")
		}
		if len(reg.PumpCurve) == 0 {
			return fmt.Errorf("no pump curve stored in the config file")
		}
		points = reg.PumpCurve
	case len(args) == 0:
		return fmt.Errorf("give temp:duty points or --from-config")
	default:
		if points, err = parseCurve(args); err != nil {
			return err
		}
	}

	if err := protocol.ValidateCurve(points); err != nil {
		cmd.SilenceUsage = true
		ui.NewPrinter(os.Stdout).PrintDeviceError("Invalid pump curve", device.NewValidationError(err))
		return err
	}

	err = withSession(cmd, "Pump update failed", func(ctx context.Context, s *device.Session) error {
		if err := s.SetPumpProfile(ctx, points); err != nil {
			return err
		}
		details := make([]ui.Param, 0, len(points))
		for _, p := range points {
			details = append(details, ui.Param{Key: fmt.Sprintf("%d °C", p.Temperature), Value: fmt.Sprintf("%d%%", p.Duty)})
		}
		ui.NewPrinter(os.Stdout).PrintSuccess("Pump curve uploaded", details...)
		return nil
	})
	if err != nil || !saveCurve {
		return err
	}

	if err := reg.SetPumpCurve(points); err != nil {
		return err
	}
	return saveConfig(reg)
}

// parseCurve parses "temp:duty" pairs.
func parseCurve(args []string) ([]protocol.CurvePoint, error) {
	points := make([]protocol.CurvePoint, 0, len(args))
	for _, arg := range args {
		t, d, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("invalid curve point %q: want temp:duty", arg)
		}
		temp, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, fmt.Errorf("invalid temperature in %q", arg)
		}
		duty, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(d), "%"))
		if err != nil {
			return nil, fmt.Errorf("invalid duty in %q", arg)
		}
		points = append(points, protocol.CurvePoint{Temperature: temp, Duty: duty})
	}
	return points, nil
}
