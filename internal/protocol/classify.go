package protocol

// Strategy identifies how an effect is encoded into reports.
type Strategy int

const (
	StrategyDefault      Strategy = iota // one 0x2A report
	StrategyDensePalette                 // color, commit and timing 0x22 reports
	StrategyPerZone                      // clear pair, eight zones, enable
)

func (s Strategy) String() string {
	switch s {
	case StrategyDefault:
		return "default"
	case StrategyDensePalette:
		return "dense-palette"
	case StrategyPerZone:
		return "per-zone"
	default:
		return "unknown"
	}
}

// StrategyOf returns the encoding strategy for an effect.
func StrategyOf(e Effect) Strategy {
	switch e {
	case EffectSuperFixed, EffectSuperBreathing:
		return StrategyDensePalette
	case EffectWings:
		return StrategyPerZone
	default:
		return StrategyDefault
	}
}

// IsMarquee reports whether e belongs to the marquee family.
func IsMarquee(e Effect) bool {
	switch e {
	case EffectMarquee3, EffectMarquee4, EffectMarquee5, EffectMarquee6,
		EffectBackwardsMarquee3, EffectBackwardsMarquee4, EffectBackwardsMarquee5, EffectBackwardsMarquee6,
		EffectCoveringMarquee, EffectCoveringBackwardsMarquee:
		return true
	}
	return false
}

// IsMovingAlternating reports whether e belongs to the moving-alternating family.
func IsMovingAlternating(e Effect) bool {
	switch e {
	case EffectMovingAlternating3, EffectMovingAlternating4, EffectMovingAlternating5, EffectMovingAlternating6,
		EffectBackwardsMovingAlternating3, EffectBackwardsMovingAlternating4,
		EffectBackwardsMovingAlternating5, EffectBackwardsMovingAlternating6:
		return true
	}
	return false
}

// IsBackwards reports whether e is the reversed variant of an animation.
func IsBackwards(e Effect) bool {
	switch e {
	case EffectBackwardsMarquee3, EffectBackwardsMarquee4, EffectBackwardsMarquee5, EffectBackwardsMarquee6,
		EffectBackwardsMovingAlternating3, EffectBackwardsMovingAlternating4,
		EffectBackwardsMovingAlternating5, EffectBackwardsMovingAlternating6,
		EffectBackwardsRainbowFlow, EffectBackwardsRainbowPulse,
		EffectBackwardsSpectrumWave, EffectBackwardsSuperRainbow,
		EffectCoveringBackwardsMarquee:
		return true
	}
	return false
}

// directionByte is the first footer byte of the default report.
func directionByte(e Effect) byte {
	var b byte
	switch {
	case IsMarquee(e):
		b = 0x04
	case e == EffectStarryNight || IsMovingAlternating(e):
		b = 0x01
	}
	if IsBackwards(e) {
		b += 0x02
	}
	return b
}

// modeRelatedByte is the animation-mode footer byte of the default report.
func modeRelatedByte(e Effect) byte {
	switch e {
	case EffectFading, EffectPulse, EffectBreathing:
		return 0x08
	case EffectTaiChi, EffectWaterCooler:
		return 0x05
	case EffectLoading:
		return 0x04
	default:
		return 0x00
	}
}

// colorCountByte is the color-count footer byte. Water-cooler always reports one.
func colorCountByte(e Effect, n int) byte {
	if e == EffectWaterCooler {
		return 0x01
	}
	return byte(n)
}

// ledSizeByte is the group length for marquee/alternating modes, otherwise 3.
func ledSizeByte(m ColorMode) byte {
	if m.Opcode == 0x03 || m.Opcode == 0x05 {
		return m.Variant
	}
	return 0x03
}
