package protocol

// Device identity
const (
	VendorID  = 0x1e71 // NZXT
	ProductID = 0x2007 // Kraken X53/X63/X73
)

// FrameSize is the fixed length of every HID report, in both directions.
const FrameSize = 64

// Command opcodes (host -> device)
const (
	OpFirmwareInfo    = 0x10
	OpLightingInfo    = 0x20
	OpConfigure       = 0x70
	OpPumpCurve       = 0x72
	OpLighting        = 0x2a
	OpLightingDirect  = 0x22
	SubOpSetMode      = 0x04
	SubOpColors       = 0x10
	SubOpCommit       = 0x11
	SubOpZone         = 0x20
	SubOpEnableZones  = 0x03
	SubOpTiming       = 0xa0
	SubOpRequest      = 0x01
	SubOpUpdateRate   = 0x02
	SubOpLightingInfo = 0x03
)

// Reply tags (device -> host), first two bytes of the report
const (
	ReplyFirmwareInfo = 0x11
	ReplyLightingInfo = 0x21
	ReplyStatus       = 0x75
)

// Status report layout
const (
	offsetTempWhole  = 15
	offsetTempTenths = 16
	offsetPumpRPM    = 17 // uint16 LE, spans 17-18
	offsetPumpDuty   = 19
)

// Firmware info reply layout
const (
	offsetFirmwareMajor = 0x11
	offsetFirmwareMinor = 0x12
	offsetFirmwarePatch = 0x13
)

// UpdateInterval is the status report interval sent during the handshake
// (firmware units, little-endian 0x01b8).
var UpdateInterval = [2]byte{0xb8, 0x01}

// Color payload limits
const (
	defaultPathColors = 16
	densePathColors   = 40
)

// densePaletteSuffix is appended to the dense-palette timing report.
var densePaletteSuffix = []byte{0x08, 0x00, 0x00, 0x80, 0x00, 0x32, 0x00, 0x00, 0x01}

// Pump channel limits
const (
	PumpChannelID       = 0x01
	PumpMinDuty         = 20
	PumpMaxDuty         = 100
	CriticalTemperature = 59 // °C, duty is forced to 100% at and above
	pumpCurveMinTemp    = 20
	pumpCurvePoints     = CriticalTemperature - pumpCurveMinTemp + 1
)
