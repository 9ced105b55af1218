package protocol

import (
	"encoding/binary"
	"fmt"
)

// Status is one decoded telemetry report.
type Status struct {
	LiquidTempC     float64 `json:"liquid_temp_c" cbor:"liquid_temp_c"`
	PumpRPM         uint16  `json:"pump_rpm" cbor:"pump_rpm"`
	PumpDutyPercent uint8   `json:"pump_duty_percent" cbor:"pump_duty_percent"`
}

func (s Status) String() string {
	return fmt.Sprintf("Status{liquid=%.1f°C, pump=%d rpm, duty=%d%%}", s.LiquidTempC, s.PumpRPM, s.PumpDutyPercent)
}

// Critical reports whether the liquid has reached the critical temperature.
func (s Status) Critical() bool {
	return s.LiquidTempC >= CriticalTemperature
}

// DecodeStatus parses a status report. It never fails; use IsStatusFrame to
// check the tag first when the report source is mixed.
//
//	[15]    liquid temperature, whole degrees
//	[16]    liquid temperature, tenths
//	[17-18] pump rpm (LE)
//	[19]    pump duty %
func DecodeStatus(f Frame) Status {
	return Status{
		LiquidTempC:     float64(f[offsetTempWhole]) + float64(f[offsetTempTenths])/10,
		PumpRPM:         binary.LittleEndian.Uint16(f[offsetPumpRPM : offsetPumpRPM+2]),
		PumpDutyPercent: f[offsetPumpDuty],
	}
}

// IsStatusFrame reports whether f carries the status tag 0x75 0x01.
func IsStatusFrame(f Frame) bool {
	return f[0] == ReplyStatus && f[1] == 0x01
}

// FirmwareVersion is the three-part version reported during the handshake.
type FirmwareVersion struct {
	Major, Minor, Patch uint8
}

func (v FirmwareVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsFirmwareInfo reports whether f is the 0x11 0x01 firmware info reply.
func IsFirmwareInfo(f Frame) bool {
	return f[0] == ReplyFirmwareInfo && f[1] == 0x01
}

// IsLightingInfo reports whether f is the 0x21 0x03 lighting info reply.
func IsLightingInfo(f Frame) bool {
	return f[0] == ReplyLightingInfo && f[1] == 0x03
}

// ParseFirmwareVersion extracts the version from a firmware info reply.
func ParseFirmwareVersion(f Frame) (FirmwareVersion, error) {
	if !IsFirmwareInfo(f) {
		return FirmwareVersion{}, fmt.Errorf("not a firmware info reply: tag 0x%02x 0x%02x", f[0], f[1])
	}
	return FirmwareVersion{
		Major: f[offsetFirmwareMajor],
		Minor: f[offsetFirmwareMinor],
		Patch: f[offsetFirmwarePatch],
	}, nil
}

// FrameFromBytes converts a raw read into a Frame. Short reads are zero
// padded; longer reads are an error.
func FrameFromBytes(b []byte) (Frame, error) {
	if len(b) > FrameSize {
		return Frame{}, fmt.Errorf("report too long: %d bytes (max %d)", len(b), FrameSize)
	}
	return NewFrame(b...), nil
}
