package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/krakenctl/internal/config"
	"github.com/muurk/krakenctl/internal/device"
	"github.com/muurk/krakenctl/internal/protocol"
	"github.com/muurk/krakenctl/internal/ui"
)

var lightingSpeed string

func init() {
	rootCmd.AddCommand(colorCmd)
	rootCmd.AddCommand(effectsCmd)
	rootCmd.AddCommand(presetCmd)

	colorCmd.Flags().StringVar(&lightingSpeed, "speed", "normal", "Animation speed (slowest, slower, normal, faster, fastest)")
	presetSaveCmd.Flags().StringVar(&lightingSpeed, "speed", "normal", "Animation speed (slowest, slower, normal, faster, fastest)")

	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetApplyCmd)
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetDeleteCmd)
}

// parseLighting turns CLI arguments into validated protocol values so bad
// input is rejected before the cooler is opened.
func parseLighting(args []string, speedName string) (*config.Lighting, error) {
	p := &config.Preset{
		Channel: args[0],
		Effect:  args[1],
		Colors:  args[2:],
		Speed:   speedName,
	}
	return p.Resolve()
}

func applyLighting(cmd *cobra.Command, l *config.Lighting, params ...ui.Param) error {
	return withSession(cmd, "Lighting update failed", func(ctx context.Context, s *device.Session) error {
		if err := s.SetColor(ctx, l.Channel, l.Effect, l.Colors, l.Speed); err != nil {
			return err
		}
		details := append([]ui.Param{
			{Key: "Channel", Value: l.Channel.String()},
			{Key: "Effect", Value: l.Effect.String()},
			{Key: "Speed", Value: l.Speed.String()},
		}, params...)
		if len(l.Colors) > 0 {
			details = append(details, ui.Param{Key: "Colors", Value: joinColors(l.Colors)})
		}
		ui.NewPrinter(os.Stdout).PrintSuccess("Lighting applied", details...)
		return nil
	})
}

func joinColors(colors []protocol.Color) string {
	hex := make([]string, len(colors))
	for i, c := range colors {
		hex[i] = c.Hex()
	}
	return strings.Join(hex, " ")
}

// colorCmd sets a lighting effect
var colorCmd = &cobra.Command{
	Use:   "color <channel> <effect> [colors...]",
	Short: "Set a lighting effect",
	Long: `Set a lighting effect on a channel.

Channels: external, ring, logo, sync. Colors are hex RGB values with or
without a leading '#'. Run 'krakenctl effects' for the list of effects and
how many colors each takes.`,
	Example: `  # Solid red ring
  krakenctl color ring fixed ff0000

  # Fade between three colors on every channel
  krakenctl color sync fading ff0000 00ff00 0000ff --speed slower

  # Turn the logo off
  krakenctl color logo off`,
	Args: cobra.MinimumNArgs(2),
	RunE: runColor,
}

func runColor(cmd *cobra.Command, args []string) error {
	l, err := parseLighting(args, lightingSpeed)
	if err != nil {
		cmd.SilenceUsage = true
		ui.NewPrinter(os.Stdout).PrintDeviceError("Invalid lighting setting", device.NewValidationError(err))
		return err
	}
	return applyLighting(cmd, l)
}

// effectsCmd lists supported effects
var effectsCmd = &cobra.Command{
	Use:   "effects",
	Short: "List lighting effects and their color limits",
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := ui.NewPrinter(os.Stdout)
		printer.PrintHeader("Lighting effects", "effects")
		for _, e := range protocol.Effects() {
			mode, err := protocol.ModeOf(e)
			if err != nil {
				continue
			}
			printer.Println(fmt.Sprintf("  %-34s %s", e.String(), colorRange(mode)))
		}
		printer.Newline()
		speeds := make([]string, 0, 5)
		for _, s := range protocol.SpeedLevels() {
			speeds = append(speeds, s.String())
		}
		printer.Println("Speeds: " + strings.Join(speeds, ", "))
		return nil
	},
}

func colorRange(m protocol.ColorMode) string {
	switch {
	case !m.AcceptsColors():
		return "no colors"
	case m.MinColors == m.MaxColors:
		return fmt.Sprintf("%d color(s)", m.MinColors)
	default:
		return fmt.Sprintf("%d-%d colors", m.MinColors, m.MaxColors)
	}
}

// presetCmd groups saved lighting settings
var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Save and apply named lighting settings",
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name> <channel> <effect> [colors...]",
	Short: "Save a lighting setting under a name",
	Example: `  krakenctl preset save night ring breathing 200020 --speed slowest
  krakenctl preset apply night`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		printer := ui.NewPrinter(os.Stdout)

		l, err := parseLighting(args[1:], lightingSpeed)
		if err != nil {
			printer.PrintDeviceError("Invalid lighting setting", device.NewValidationError(err))
			return err
		}

		reg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := reg.SetPreset(args[0], config.NewPreset(*l)); err != nil {
			return err
		}
		if err := saveConfig(reg); err != nil {
			printer.PrintError("Could not save configuration", err, nil)
			return err
		}
		printer.PrintSuccess("Preset saved",
			ui.Param{Key: "Name", Value: args[0]},
			ui.Param{Key: "Effect", Value: l.Effect.String()},
		)
		return nil
	},
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Apply a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		reg, err := loadConfig()
		if err != nil {
			return err
		}
		p := reg.GetPreset(args[0])
		if p == nil {
			return fmt.Errorf("preset %q not found (see 'krakenctl preset list')", args[0])
		}
		l, err := p.Resolve()
		if err != nil {
			return fmt.Errorf("preset %q: %w", args[0], err)
		}
		return applyLighting(cmd, l, ui.Param{Key: "Preset", Value: args[0]})
	},
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadConfig()
		if err != nil {
			return err
		}
		printer := ui.NewPrinter(os.Stdout)
		names := reg.PresetNames()
		if len(names) == 0 {
			printer.Println("No presets saved. Use 'krakenctl preset save' to create one.")
			return nil
		}
		for _, name := range names {
			p := reg.GetPreset(name)
			line := fmt.Sprintf("  %-16s %-6s %s", name, p.Channel, p.Effect)
			if len(p.Colors) > 0 {
				line += " " + strings.Join(p.Colors, " ")
			}
			if p.Speed != "" {
				line += " (" + p.Speed + ")"
			}
			printer.Println(line)
		}
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		reg, err := loadConfig()
		if err != nil {
			return err
		}
		if !reg.DeletePreset(args[0]) {
			return fmt.Errorf("preset %q not found", args[0])
		}
		if err := saveConfig(reg); err != nil {
			return err
		}
		ui.NewPrinter(os.Stdout).PrintSuccess("Preset deleted", ui.Param{Key: "Name", Value: args[0]})
		return nil
	},
}
