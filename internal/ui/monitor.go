package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/krakenctl/internal/protocol"
)

// StatusFunc fetches one status reading.
type StatusFunc func(ctx context.Context) (protocol.Status, error)

// statusMsg carries the result of one poll.
type statusMsg struct {
	status protocol.Status
	err    error
	at     time.Time
}

// pollMsg triggers the next poll.
type pollMsg struct{}

// MonitorModel is a Bubble Tea model that polls the cooler and shows a live
// status panel with the session minimum and maximum liquid temperature.
type MonitorModel struct {
	fetch    StatusFunc
	interval time.Duration
	timeout  time.Duration
	firmware string

	spinner spinner.Model
	width   int

	latest   *protocol.Status
	lastErr  error
	updated  time.Time
	samples  int
	minTemp  float64
	maxTemp  float64
	quitting bool
}

// NewMonitorModel creates a monitor polling fetch every interval.
func NewMonitorModel(fetch StatusFunc, interval time.Duration, firmware string) MonitorModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	if interval <= 0 {
		interval = time.Second
	}
	return MonitorModel{
		fetch:    fetch,
		interval: interval,
		timeout:  interval + 2*time.Second,
		firmware: firmware,
		spinner:  s,
		width:    GetTerminalWidth(),
	}
}

// Init implements tea.Model
func (m MonitorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

func (m MonitorModel) poll() tea.Cmd {
	fetch, timeout := m.fetch, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		st, err := fetch(ctx)
		return statusMsg{status: st, err: err, at: time.Now()}
	}
}

func (m MonitorModel) scheduleNext() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return pollMsg{} })
}

// Update implements tea.Model
func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = clampWidth(msg.Width)
		return m, nil

	case pollMsg:
		return m, m.poll()

	case statusMsg:
		m.updated = msg.at
		if msg.err != nil {
			m.lastErr = msg.err
			return m, m.scheduleNext()
		}
		m.lastErr = nil
		m.record(msg.status)
		return m, m.scheduleNext()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *MonitorModel) record(st protocol.Status) {
	if m.samples == 0 || st.LiquidTempC < m.minTemp {
		m.minTemp = st.LiquidTempC
	}
	if m.samples == 0 || st.LiquidTempC > m.maxTemp {
		m.maxTemp = st.LiquidTempC
	}
	m.samples++
	m.latest = &st
}

// Latest returns the most recent reading, if any.
func (m MonitorModel) Latest() (protocol.Status, bool) {
	if m.latest == nil {
		return protocol.Status{}, false
	}
	return *m.latest, true
}

// View implements tea.Model
func (m MonitorModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.latest == nil {
		b.WriteString(fmt.Sprintf("\n  %s Waiting for the first status report...\n", m.spinner.View()))
	} else {
		b.WriteString(RenderStatus(*m.latest, m.firmware, m.width))
		b.WriteString("\n")
		b.WriteString(StatusLabelStyle.PaddingLeft(2).Render("Session"))
		b.WriteString(ResultValueStyle.Render(fmt.Sprintf("min %.1f °C  max %.1f °C  (%d samples)", m.minTemp, m.maxTemp, m.samples)))
		b.WriteString("\n")
	}

	if m.lastErr != nil {
		b.WriteString(ErrorMessageStyle.Render(fmt.Sprintf("  %s %v", FailureMarker, m.lastErr)))
		b.WriteString("\n")
	}
	if !m.updated.IsZero() {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("  updated %s", m.updated.Format("15:04:05"))))
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("  q quit"))
	b.WriteString("\n")
	return b.String()
}

// RunMonitor runs the monitor until the user quits.
func RunMonitor(fetch StatusFunc, interval time.Duration, firmware string) error {
	p := tea.NewProgram(NewMonitorModel(fetch, interval, firmware), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
