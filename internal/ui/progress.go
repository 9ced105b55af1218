package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Gauge renders a percentage as a gradient bar with a numeric suffix.
type Gauge struct {
	Label string
	Width int
	bar   progress.Model
}

// NewGauge creates a gauge sized for the given terminal width.
func NewGauge(label string, width int) *Gauge {
	g := &Gauge{Label: label}
	return g.SetWidth(width)
}

// SetWidth resizes the bar for the terminal width
func (g *Gauge) SetWidth(width int) *Gauge {
	g.Width = width
	barWidth := width - 30 // Leave room for label and percentage
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	g.bar = progress.New(
		progress.WithGradient(string(CoolColor), string(ErrorColor)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return g
}

// Render draws the gauge at percent (0-100). Values outside the range are clamped.
func (g *Gauge) Render(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		StatusLabelStyle.Render(g.Label),
		g.bar.ViewAs(percent/100),
		StatusValueStyle.Render(fmt.Sprintf(" %3.0f%%", percent)),
	)
}
