// Package logging provides structured logging for krakenctl.
//
// This package wraps zap with package-level helpers so the device session,
// telemetry server and CLI share one logger. Logging is silent unless a level
// is passed to Initialize or KRAKENCTL_LOG_LEVEL is set, so command output
// stays clean by default.
//
// # Log Levels
//
//   - Debug: every HID report written or read (hex dump)
//   - Info: session open/close, handshake result, telemetry clients
//   - Warn: skipped reports, dropped subscribers, MQTT reconnects
//   - Error: transport failures
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	logging.Info("Session opened", zap.String("firmware", "1.10.0"))
//	logging.LogFrame("write", frame.Bytes())
//
// Logs go to stderr so that JSON output on stdout stays machine readable.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
