// Package device manages sessions with an NZXT Kraken X3 cooler over USB HID.
//
// A Session is opened with Open, which locates the device, performs the
// initialization handshake and keeps the handle until Close. Lighting and
// pump commands are encoded by package protocol and written while holding the
// session lock, so concurrent callers never interleave report sequences.
//
// # Usage
//
//	s, err := device.Open(ctx, device.DefaultOptions())
//	if err != nil {
//	    for _, hint := range device.GetTroubleshootingHint(err) {
//	        fmt.Println(hint)
//	    }
//	    return err
//	}
//	defer s.Close()
//
//	err = s.SetColor(ctx, protocol.ChannelRing, protocol.EffectFixed,
//	    []protocol.Color{{R: 255}}, protocol.SpeedNormal)
//
// # Errors
//
// All errors returned by a Session are *DeviceError values. Use the Is*
// helpers (IsNotFound, IsHandshakeTimeout, IsValidationError, ...) rather than
// comparing messages. Validation errors wrap a *protocol.EncodeError and are
// returned before any report is written.
//
// # Transports
//
// The HID backend uses hidapi through github.com/sstallion/go-hid. Tests
// supply their own Transport through NewSession.
package device
