package protocol

import (
	"encoding/hex"
)

// Frame is one fixed-length HID report.
type Frame [FrameSize]byte

// NewFrame copies prefix into a zero-padded report. Bytes past FrameSize are dropped.
func NewFrame(prefix ...byte) Frame {
	var f Frame
	copy(f[:], prefix)
	return f
}

// Bytes returns the report as a slice sharing no memory with f.
func (f Frame) Bytes() []byte {
	b := make([]byte, FrameSize)
	copy(b, f[:])
	return b
}

// Tag returns the first two bytes of the report.
func (f Frame) Tag() (byte, byte) {
	return f[0], f[1]
}

func (f Frame) String() string {
	return hex.EncodeToString(f[:])
}

// ValidateColors checks the color count against an effect's bounds.
func ValidateColors(e Effect, n int) (ColorMode, error) {
	mode, err := ModeOf(e)
	if err != nil {
		return ColorMode{}, err
	}

	switch {
	case n < mode.MinColors:
		return mode, &EncodeError{Kind: TooFewColors, Effect: e, Got: n, Min: mode.MinColors, Max: mode.MaxColors}
	case mode.MaxColors == 0 && n > 0:
		return mode, &EncodeError{Kind: NoColorsNeeded, Effect: e, Got: n}
	case n > mode.MaxColors:
		return mode, &EncodeError{Kind: TooManyColors, Effect: e, Got: n, Min: mode.MinColors, Max: mode.MaxColors}
	}
	return mode, nil
}

// BuildLighting encodes a lighting request into the ordered reports to send.
//
// Validation happens first; on error no reports are returned. The number of
// reports depends on the strategy: 1 (default), 3 (dense palette) or 11 (per-zone).
func BuildLighting(ch Channel, e Effect, colors []Color, speed SpeedLevel) ([]Frame, error) {
	cid, err := ch.ID()
	if err != nil {
		return nil, err
	}

	mode, err := ValidateColors(e, len(colors))
	if err != nil {
		return nil, err
	}

	timing, err := TimingOf(mode.SpeedClass, speed)
	if err != nil {
		return nil, err
	}

	switch StrategyOf(e) {
	case StrategyDensePalette:
		return buildDensePalette(cid, mode, colors, timing), nil
	case StrategyPerZone:
		return buildPerZone(cid, colors[0], timing), nil
	default:
		return []Frame{buildDefault(cid, e, mode, colors, timing)}, nil
	}
}

// buildDefault encodes the single-report path:
//
//	[0-1]  2A 04
//	[2-3]  cid cid
//	[4]    mode
//	[5-6]  timing (LE)
//	[7..]  colors GRB, zero padded to 16 slots
//	footer direction, color count, mode-related, brightness, LED size
func buildDefault(cid byte, e Effect, mode ColorMode, colors []Color, timing TimingEntry) Frame {
	buf := make([]byte, 0, FrameSize)
	buf = append(buf, OpLighting, SubOpSetMode, cid, cid, mode.Opcode, timing[0], timing[1])
	buf = appendColors(buf, colors, defaultPathColors)

	buf = append(buf,
		directionByte(e),
		colorCountByte(e, len(colors)),
		modeRelatedByte(e),
		staticBrightness(cid),
		ledSizeByte(mode),
	)
	return NewFrame(buf...)
}

// buildDensePalette encodes super-fixed and super-breathing as color, commit
// and timing reports. Colors beyond what a single report holds are dropped by
// NewFrame.
func buildDensePalette(cid byte, mode ColorMode, colors []Color, timing TimingEntry) []Frame {
	colorBuf := []byte{OpLightingDirect, SubOpColors, cid, 0x00}
	colorBuf = appendColors(colorBuf, colors, densePathColors)

	timingBuf := []byte{OpLightingDirect, SubOpTiming, cid, 0x00, mode.Opcode, timing[0], timing[1]}
	timingBuf = append(timingBuf, densePaletteSuffix...)

	return []Frame{
		NewFrame(colorBuf...),
		NewFrame(OpLightingDirect, SubOpCommit, cid, 0x00),
		NewFrame(timingBuf...),
	}
}

// ZoneCount is the number of independently animated LED zones on the ring.
const ZoneCount = 8

// WingsPalette derives the four zone palette groups from one color: the color
// itself, a 1/2.5 dimmed tier, a further 1/4 dimmed tier and an all-off group.
func WingsPalette(c1 Color) [4][]byte {
	c2 := c1.Scale(2.5)
	c3 := c2.Scale(4)

	pair := func(c Color) []byte {
		g := c.GRB()
		return []byte{g[0], g[1], g[2], g[0], g[1], g[2]}
	}

	return [4][]byte{
		pair(c1),
		pair(c2),
		pair(c3),
		make([]byte, 8),
	}
}

// buildPerZone encodes the wings animation.
func buildPerZone(cid byte, c Color, timing TimingEntry) []Frame {
	wings := WingsPalette(c)

	frames := make([]Frame, 0, 2+ZoneCount+1)
	frames = append(frames,
		NewFrame(OpLightingDirect, SubOpColors, cid),
		NewFrame(OpLightingDirect, SubOpCommit, cid),
	)

	for i := 0; i < ZoneCount; i++ {
		var mod byte = 0x01
		if i == 3 || i == 7 {
			mod = 0x05
		}
		dir1, dir2 := byte(0x04), byte(0x84)
		if i >= ZoneCount/2 {
			dir1, dir2 = 0x84, 0x04
		}

		buf := []byte{
			OpLightingDirect, SubOpZone, cid, byte(i),
			0x04, timing[0], timing[1], mod,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x02, dir1, dir2,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		}
		buf = append(buf, wings[i%4]...)
		frames = append(frames, NewFrame(buf...))
	}

	frames = append(frames, NewFrame(OpLightingDirect, SubOpEnableZones, cid, 0x08))
	return frames
}

// Handshake commands, sent in this order when a session opens.

// BuildFirmwareInfoRequest asks the device for its firmware version.
func BuildFirmwareInfoRequest() Frame {
	return NewFrame(OpFirmwareInfo, SubOpRequest)
}

// BuildLightingInfoRequest asks the device for its lighting accessory info.
func BuildLightingInfoRequest() Frame {
	return NewFrame(OpLightingInfo, SubOpLightingInfo)
}

// BuildUpdateIntervalCommand sets the status report interval.
func BuildUpdateIntervalCommand() Frame {
	return NewFrame(OpConfigure, SubOpUpdateRate, 0x01, UpdateInterval[0], UpdateInterval[1])
}

// BuildLightingConfirm completes the lighting initialization.
func BuildLightingConfirm() Frame {
	return NewFrame(OpConfigure, SubOpRequest)
}

// HandshakeFrames returns the initialization commands in send order.
func HandshakeFrames() []Frame {
	return []Frame{
		BuildFirmwareInfoRequest(),
		BuildLightingInfoRequest(),
		BuildUpdateIntervalCommand(),
		BuildLightingConfirm(),
	}
}
