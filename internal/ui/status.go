package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/krakenctl/internal/protocol"
)

// RenderStatus renders one status reading as a bordered panel.
func RenderStatus(st protocol.Status, firmware string, width int) string {
	width = clampWidth(width)
	return PanelStyle(width).Render(statusBody(st, firmware, width))
}

func statusBody(st protocol.Status, firmware string, width int) string {
	lines := []string{
		HeaderTitleStyle.UnsetPaddingLeft().Render("KRAKEN X3"),
		"",
		statusLine("Liquid", TemperatureStyle(st.LiquidTempC).Render(fmt.Sprintf("%.1f °C", st.LiquidTempC))),
		statusLine("Pump speed", StatusValueStyle.Render(fmt.Sprintf("%d rpm", st.PumpRPM))),
		NewGauge("Pump duty", width).Render(float64(st.PumpDutyPercent)),
	}
	if firmware != "" {
		lines = append(lines, statusLine("Firmware", ResultValueStyle.Render(firmware)))
	}
	if st.Critical() {
		lines = append(lines, "", ErrorTitleStyle.Render(fmt.Sprintf("%s  Liquid at critical temperature; pump forced to 100%%", WarningMarker)))
	}
	return strings.Join(lines, "\n")
}

func statusLine(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, StatusLabelStyle.Render(label), value)
}
