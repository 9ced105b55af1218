package protocol

import (
	"fmt"
	"strings"
)

// Channel is an addressable lighting zone group.
type Channel int

const (
	ChannelExternal Channel = iota
	ChannelRing
	ChannelLogo
	ChannelSync
)

// Channels lists every lighting channel in declaration order.
var Channels = []Channel{ChannelExternal, ChannelRing, ChannelLogo, ChannelSync}

// ID returns the 3-bit channel identifier. Sync addresses all three zones.
func (c Channel) ID() (byte, error) {
	switch c {
	case ChannelExternal:
		return 0b001, nil
	case ChannelRing:
		return 0b010, nil
	case ChannelLogo:
		return 0b100, nil
	case ChannelSync:
		return 0b111, nil
	default:
		return 0, &EncodeError{Kind: InvalidChannel, Channel: c}
	}
}

// staticBrightness is the per-channel brightness byte of the default footer.
func staticBrightness(cid byte) byte {
	switch cid {
	case 0b001, 0b111:
		return 40
	case 0b010:
		return 8
	case 0b100:
		return 1
	default:
		return 0
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelExternal:
		return "external"
	case ChannelRing:
		return "ring"
	case ChannelLogo:
		return "logo"
	case ChannelSync:
		return "sync"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// ParseChannel parses a channel name (case-insensitive).
func ParseChannel(name string) (Channel, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Channels {
		if c.String() == n {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown channel %q (valid: external, ring, logo, sync)", name)
}
