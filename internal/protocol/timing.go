package protocol

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// SpeedLevel is the user-facing animation speed selector.
type SpeedLevel int

const (
	SpeedSlowest SpeedLevel = iota
	SpeedSlower
	SpeedNormal
	SpeedFaster
	SpeedFastest

	speedLevelCount
)

// SpeedClassCount is the number of timing curves in the firmware.
const SpeedClassCount = 12

var speedNames = [speedLevelCount]string{"slowest", "slower", "normal", "faster", "fastest"}

func (s SpeedLevel) String() string {
	if s >= 0 && s < speedLevelCount {
		return speedNames[s]
	}
	return fmt.Sprintf("SpeedLevel(%d)", int(s))
}

// SpeedLevels returns all speed levels from slowest to fastest.
func SpeedLevels() []SpeedLevel {
	return []SpeedLevel{SpeedSlowest, SpeedSlower, SpeedNormal, SpeedFaster, SpeedFastest}
}

// ParseSpeed parses a speed name ("slowest" .. "fastest").
func ParseSpeed(name string) (SpeedLevel, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range speedNames {
		if s == n {
			return SpeedLevel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown speed %q (valid: %s)", name, strings.Join(speedNames[:], ", "))
}

// TimingEntry is a little-endian 16-bit firmware timer value.
type TimingEntry [2]byte

// Value returns the timer value as an integer.
func (t TimingEntry) Value() uint16 {
	return binary.LittleEndian.Uint16(t[:])
}

// speedValues is indexed by [speed class][speed level]. Each class is the
// timing curve of one effect family.
var speedValues = [SpeedClassCount][speedLevelCount]TimingEntry{
	{{0x32, 0x00}, {0x32, 0x00}, {0x32, 0x00}, {0x32, 0x00}, {0x32, 0x00}},
	{{0x50, 0x00}, {0x3c, 0x00}, {0x28, 0x00}, {0x14, 0x00}, {0x0a, 0x00}},
	{{0x5e, 0x01}, {0x2c, 0x01}, {0xfa, 0x00}, {0x96, 0x00}, {0x50, 0x00}},
	{{0x40, 0x06}, {0x14, 0x05}, {0xe8, 0x03}, {0x20, 0x03}, {0x58, 0x02}},
	{{0x20, 0x03}, {0xbc, 0x02}, {0xf4, 0x01}, {0x90, 0x01}, {0x2c, 0x01}},
	{{0x19, 0x00}, {0x14, 0x00}, {0x0f, 0x00}, {0x07, 0x00}, {0x04, 0x00}},
	{{0x28, 0x00}, {0x1e, 0x00}, {0x14, 0x00}, {0x0a, 0x00}, {0x04, 0x00}},
	{{0x32, 0x00}, {0x28, 0x00}, {0x1e, 0x00}, {0x14, 0x00}, {0x0a, 0x00}},
	{{0x14, 0x00}, {0x14, 0x00}, {0x14, 0x00}, {0x14, 0x00}, {0x14, 0x00}},
	{{0x00, 0x00}, {0x00, 0x00}, {0x00, 0x00}, {0x00, 0x00}, {0x00, 0x00}},
	{{0x37, 0x00}, {0x28, 0x00}, {0x19, 0x00}, {0x0a, 0x00}, {0x00, 0x00}},
	{{0x6e, 0x00}, {0x53, 0x00}, {0x39, 0x00}, {0x2e, 0x00}, {0x20, 0x00}},
}

// TimingOf returns the timer value for a speed class and level.
func TimingOf(speedClass int, level SpeedLevel) (TimingEntry, error) {
	if speedClass < 0 || speedClass >= SpeedClassCount || level < 0 || level >= speedLevelCount {
		return TimingEntry{}, &EncodeError{Kind: InvalidSpeed, SpeedClass: speedClass, Speed: level}
	}
	return speedValues[speedClass][level], nil
}
