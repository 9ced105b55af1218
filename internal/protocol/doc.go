// Package protocol implements the Kraken X3 (X53/X63/X73) lighting and telemetry
// wire format.
//
// This package turns user-level lighting intent (channel, effect, colors and
// animation speed) into the exact 64-byte HID output reports the cooler firmware
// expects, and decodes the periodic 64-byte status report into liquid
// temperature, pump speed and pump duty readings. It performs no I/O; see the
// device package for the session and transport.
//
// # Report Format
//
// Every report exchanged with the device is exactly 64 bytes. Commands carry a
// meaningful prefix followed by zero padding:
//
//	[0]     opcode           0x10 firmware, 0x20 lighting info, 0x70 config,
//	                         0x72 pump curve, 0x2A/0x22 lighting
//	[1]     sub-opcode
//	[2..]   command payload (multi-byte numbers little-endian)
//	[N..63] zero padding
//
// Colors are always written in GRB order (green, red, blue).
//
// # Lighting Strategies
//
// BuildLighting selects one of three encodings by effect:
//
//   - Default: a single 0x2A 0x04 report with up to 16 colors and a 5-byte footer
//     derived from the effect (direction, color count, mode, brightness, LED size).
//   - Dense palette (super-fixed, super-breathing): three 0x22 reports (colors,
//     commit, timing) that the firmware applies as one update.
//   - Per-zone (wings): a clear pair, eight independent zone reports and an enable
//     report, driving a three-tier brightness ramp derived from one color.
//
// Multi-report sequences must reach the device in order and without interleaving;
// the device package enforces this with a session lock.
//
// # Usage Example
//
//	frames, err := protocol.BuildLighting(
//	    protocol.ChannelRing,
//	    protocol.EffectFading,
//	    []protocol.Color{{R: 255}, {B: 255}},
//	    protocol.SpeedNormal,
//	)
//	if err != nil {
//	    // *EncodeError: too few / none needed / too many colors
//	}
//	for _, f := range frames {
//	    _ = transport.Write(f.Bytes())
//	}
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use.
package protocol
