package protocol

import (
	"fmt"
	"strings"
)

// Effect is a named lighting animation.
type Effect int

const (
	EffectOff Effect = iota
	EffectFixed
	EffectFading
	EffectSuperFixed
	EffectSpectrumWave
	EffectBackwardsSpectrumWave
	EffectMarquee3
	EffectMarquee4
	EffectMarquee5
	EffectMarquee6
	EffectBackwardsMarquee3
	EffectBackwardsMarquee4
	EffectBackwardsMarquee5
	EffectBackwardsMarquee6
	EffectCoveringMarquee
	EffectCoveringBackwardsMarquee
	EffectAlternating3
	EffectAlternating4
	EffectAlternating5
	EffectAlternating6
	EffectMovingAlternating3
	EffectMovingAlternating4
	EffectMovingAlternating5
	EffectMovingAlternating6
	EffectBackwardsMovingAlternating3
	EffectBackwardsMovingAlternating4
	EffectBackwardsMovingAlternating5
	EffectBackwardsMovingAlternating6
	EffectPulse
	EffectBreathing
	EffectSuperBreathing
	EffectCandle
	EffectStarryNight
	EffectRainbowFlow
	EffectSuperRainbow
	EffectRainbowPulse
	EffectBackwardsRainbowFlow
	EffectBackwardsSuperRainbow
	EffectBackwardsRainbowPulse
	EffectLoading
	EffectTaiChi
	EffectWaterCooler
	EffectWings

	effectCount // keep last
)

// ColorMode is the protocol metadata of an effect.
type ColorMode struct {
	Opcode     byte // mode value written in the header
	Variant    byte // group length for marquee/alternating families
	SpeedClass int  // row of the timing table
	MinColors  int
	MaxColors  int // 0 means the effect takes no colors
}

// AcceptsColors reports whether the effect takes a color list at all.
func (m ColorMode) AcceptsColors() bool {
	return m.MaxColors > 0
}

// Effects returns every effect in declaration order.
func Effects() []Effect {
	effects := make([]Effect, 0, effectCount)
	for e := Effect(0); e < effectCount; e++ {
		effects = append(effects, e)
	}
	return effects
}

// ModeOf returns the protocol parameters for an effect.
//
// The switch is exhaustive over Effect; an error is only returned for values
// outside the enumeration.
func ModeOf(e Effect) (ColorMode, error) {
	switch e {
	case EffectOff:
		return ColorMode{0x00, 0x00, 0, 0, 0}, nil
	case EffectFixed:
		return ColorMode{0x00, 0x00, 0, 1, 1}, nil
	case EffectFading:
		return ColorMode{0x01, 0x00, 1, 1, 8}, nil
	case EffectSuperFixed:
		return ColorMode{0x01, 0x01, 9, 1, 40}, nil
	case EffectSpectrumWave, EffectBackwardsSpectrumWave:
		return ColorMode{0x02, 0x00, 2, 0, 0}, nil
	case EffectMarquee3, EffectBackwardsMarquee3:
		return ColorMode{0x03, 0x03, 2, 1, 1}, nil
	case EffectMarquee4, EffectBackwardsMarquee4:
		return ColorMode{0x03, 0x04, 2, 1, 1}, nil
	case EffectMarquee5, EffectBackwardsMarquee5:
		return ColorMode{0x03, 0x05, 2, 1, 1}, nil
	case EffectMarquee6, EffectBackwardsMarquee6:
		return ColorMode{0x03, 0x06, 2, 1, 1}, nil
	case EffectCoveringMarquee, EffectCoveringBackwardsMarquee:
		return ColorMode{0x04, 0x00, 2, 1, 8}, nil
	case EffectAlternating3:
		return ColorMode{0x05, 0x03, 3, 1, 2}, nil
	case EffectAlternating4:
		return ColorMode{0x05, 0x04, 3, 1, 2}, nil
	case EffectAlternating5:
		return ColorMode{0x05, 0x05, 3, 1, 2}, nil
	case EffectAlternating6:
		return ColorMode{0x05, 0x06, 3, 1, 2}, nil
	case EffectMovingAlternating3, EffectBackwardsMovingAlternating3:
		return ColorMode{0x05, 0x03, 4, 1, 2}, nil
	case EffectMovingAlternating4, EffectBackwardsMovingAlternating4:
		return ColorMode{0x05, 0x04, 4, 1, 2}, nil
	case EffectMovingAlternating5, EffectBackwardsMovingAlternating5:
		return ColorMode{0x05, 0x05, 4, 1, 2}, nil
	case EffectMovingAlternating6, EffectBackwardsMovingAlternating6:
		return ColorMode{0x05, 0x06, 4, 1, 2}, nil
	case EffectPulse:
		return ColorMode{0x06, 0x00, 5, 1, 8}, nil
	case EffectBreathing:
		return ColorMode{0x07, 0x00, 6, 1, 8}, nil
	case EffectSuperBreathing:
		return ColorMode{0x03, 0x00, 10, 1, 40}, nil
	case EffectCandle:
		return ColorMode{0x08, 0x00, 0, 1, 1}, nil
	case EffectStarryNight:
		return ColorMode{0x09, 0x00, 5, 1, 1}, nil
	case EffectRainbowFlow, EffectBackwardsRainbowFlow:
		return ColorMode{0x0b, 0x00, 2, 0, 0}, nil
	case EffectSuperRainbow, EffectBackwardsSuperRainbow:
		return ColorMode{0x0c, 0x00, 2, 0, 0}, nil
	case EffectRainbowPulse:
		return ColorMode{0x0d, 0x00, 2, 0, 0}, nil
	case EffectBackwardsRainbowPulse:
		// Firmware accepts the rainbow-flow mode value here.
		return ColorMode{0x0b, 0x00, 2, 0, 0}, nil
	case EffectLoading:
		return ColorMode{0x10, 0x00, 8, 1, 1}, nil
	case EffectTaiChi:
		return ColorMode{0x0e, 0x00, 7, 1, 2}, nil
	case EffectWaterCooler:
		return ColorMode{0x0f, 0x00, 6, 2, 2}, nil
	case EffectWings:
		return ColorMode{0x00, 0x00, 11, 1, 1}, nil
	default:
		return ColorMode{}, &EncodeError{Kind: UnknownEffect, Effect: e}
	}
}

var effectNames = [effectCount]string{
	EffectOff:                         "off",
	EffectFixed:                       "fixed",
	EffectFading:                      "fading",
	EffectSuperFixed:                  "super-fixed",
	EffectSpectrumWave:                "spectrum-wave",
	EffectBackwardsSpectrumWave:       "backwards-spectrum-wave",
	EffectMarquee3:                    "marquee-3",
	EffectMarquee4:                    "marquee-4",
	EffectMarquee5:                    "marquee-5",
	EffectMarquee6:                    "marquee-6",
	EffectBackwardsMarquee3:           "backwards-marquee-3",
	EffectBackwardsMarquee4:           "backwards-marquee-4",
	EffectBackwardsMarquee5:           "backwards-marquee-5",
	EffectBackwardsMarquee6:           "backwards-marquee-6",
	EffectCoveringMarquee:             "covering-marquee",
	EffectCoveringBackwardsMarquee:    "covering-backwards-marquee",
	EffectAlternating3:                "alternating-3",
	EffectAlternating4:                "alternating-4",
	EffectAlternating5:                "alternating-5",
	EffectAlternating6:                "alternating-6",
	EffectMovingAlternating3:          "moving-alternating-3",
	EffectMovingAlternating4:          "moving-alternating-4",
	EffectMovingAlternating5:          "moving-alternating-5",
	EffectMovingAlternating6:          "moving-alternating-6",
	EffectBackwardsMovingAlternating3: "backwards-moving-alternating-3",
	EffectBackwardsMovingAlternating4: "backwards-moving-alternating-4",
	EffectBackwardsMovingAlternating5: "backwards-moving-alternating-5",
	EffectBackwardsMovingAlternating6: "backwards-moving-alternating-6",
	EffectPulse:                       "pulse",
	EffectBreathing:                   "breathing",
	EffectSuperBreathing:              "super-breathing",
	EffectCandle:                      "candle",
	EffectStarryNight:                 "starry-night",
	EffectRainbowFlow:                 "rainbow-flow",
	EffectSuperRainbow:                "super-rainbow",
	EffectRainbowPulse:                "rainbow-pulse",
	EffectBackwardsRainbowFlow:        "backwards-rainbow-flow",
	EffectBackwardsSuperRainbow:       "backwards-super-rainbow",
	EffectBackwardsRainbowPulse:       "backwards-rainbow-pulse",
	EffectLoading:                     "loading",
	EffectTaiChi:                      "tai-chi",
	EffectWaterCooler:                 "water-cooler",
	EffectWings:                       "wings",
}

func (e Effect) String() string {
	if e >= 0 && e < effectCount && effectNames[e] != "" {
		return effectNames[e]
	}
	return fmt.Sprintf("Effect(%d)", int(e))
}

// ParseEffect parses an effect name such as "backwards-marquee-3".
// Underscores and case are ignored.
func ParseEffect(name string) (Effect, error) {
	n := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	for e := Effect(0); e < effectCount; e++ {
		if effectNames[e] == n {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q (see 'krakenctl effects')", name)
}
