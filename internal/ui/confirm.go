package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm displays a warning box and asks the user to type word to proceed.
// Returns true only if the typed line matches word (case-insensitive).
func Confirm(in io.Reader, out io.Writer, title string, warnings []string, word string) bool {
	width := GetTerminalWidth()

	lines := []string{
		"",
		lipgloss.NewStyle().Foreground(WarningColor).Bold(true).
			Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)),
		"",
	}
	for _, warning := range warnings {
		lines = append(lines, lipgloss.NewStyle().Foreground(TextColor).Render("   • "+warning))
	}
	lines = append(lines, "")

	_, _ = fmt.Fprintln(out, WarningBoxStyle(width).Render(strings.Join(lines, "\n")))
	_, _ = fmt.Fprintln(out)

	promptStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", word)))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}

	if strings.EqualFold(strings.TrimSpace(input), word) {
		return true
	}

	_, _ = fmt.Fprintln(out, lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}

// LowPumpDutyConfirmation asks before holding the pump at a low fixed duty.
func LowPumpDutyConfirmation(in io.Reader, out io.Writer, duty int) bool {
	return Confirm(in, out,
		fmt.Sprintf("FIXED PUMP DUTY %d%%", duty),
		[]string{
			"A fixed duty ignores liquid temperature until a profile is set again",
			"Low pump speeds under heavy load can overheat the CPU",
			"The firmware still forces 100% at 59 °C",
		},
		"yes",
	)
}
