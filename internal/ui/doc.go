// Package ui provides terminal UI components for the krakenctl CLI.
//
// Most commands follow a "run once and exit" pattern: a Printer writes a
// styled header, the status panel or a result box and returns. The monitor
// command runs MonitorModel, an interactive Bubble Tea program that polls the
// cooler on a tick and redraws the status panel.
//
// # Components
//
//   - Header: command banner showing operation name and parameters
//   - Result: success, warning and failure boxes; failures carry
//     troubleshooting hints from package device
//   - Gauge: a bubbles/progress bar for pump duty
//   - RenderStatus: the liquid temperature, pump speed and duty panel
//   - MonitorModel: live status with a spinner until the first report
//   - Confirm: typed confirmation for risky settings
//
// # Logging Integration
//
// zap logging is silent unless KRAKENCTL_LOG_LEVEL is set, so the styled
// output here is not interleaved with log lines.
package ui
