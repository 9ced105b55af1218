// Package config provides user configuration management for krakenctl.
//
// This package manages a YAML configuration file holding named lighting
// presets, a pump curve, device timing overrides and telemetry settings. The
// configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/krakenctl/config.yaml or $HOME/.config/krakenctl/config.yaml
//   - macOS: $HOME/.config/krakenctl/config.yaml
//   - Windows: %LOCALAPPDATA%\krakenctl\config.yaml
//
// # Example
//
//	version: 1
//	device:
//	  handshake_timeout: 5s
//	presets:
//	  night:
//	    channel: ring
//	    effect: breathing
//	    colors: ["#200040"]
//	    speed: slower
//	pump_curve:
//	  - {temperature: 25, duty: 30}
//	  - {temperature: 40, duty: 70}
//	telemetry:
//	  listen: ":9570"
//	  interval: 1s
//	  mqtt:
//	    enabled: true
//	    broker: tcp://homeassistant.local:1883
//	    topic_prefix: krakenctl
//
// Presets and the pump curve are validated on load, so a file that loads is
// one the device will accept.
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
