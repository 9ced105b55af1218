package protocol

import (
	"errors"
	"testing"
)

func TestModeOf_Total(t *testing.T) {
	effects := Effects()
	if len(effects) != 43 {
		t.Fatalf("Effects() returned %d effects, want 43", len(effects))
	}

	for _, e := range effects {
		mode, err := ModeOf(e)
		if err != nil {
			t.Errorf("ModeOf(%s) error: %v", e, err)
			continue
		}
		if mode.MaxColors != 0 && mode.MinColors > mode.MaxColors {
			t.Errorf("%s: min colors %d > max colors %d", e, mode.MinColors, mode.MaxColors)
		}
		if mode.MaxColors == 0 && mode.MinColors != 0 {
			t.Errorf("%s: takes no colors but min colors = %d", e, mode.MinColors)
		}
		if _, err := TimingOf(mode.SpeedClass, SpeedNormal); err != nil {
			t.Errorf("%s: speed class %d not in timing table: %v", e, mode.SpeedClass, err)
		}
	}
}

func TestModeOf_OutOfRange(t *testing.T) {
	for _, e := range []Effect{-1, effectCount, effectCount + 10} {
		_, err := ModeOf(e)
		if !errors.Is(err, ErrUnknownEffect) {
			t.Errorf("ModeOf(%d) error = %v, want ErrUnknownEffect", int(e), err)
		}
	}
}

func TestModeOf_Rows(t *testing.T) {
	tests := []struct {
		effect Effect
		want   ColorMode
	}{
		{EffectOff, ColorMode{0x00, 0x00, 0, 0, 0}},
		{EffectFixed, ColorMode{0x00, 0x00, 0, 1, 1}},
		{EffectSuperFixed, ColorMode{0x01, 0x01, 9, 1, 40}},
		{EffectBackwardsMarquee5, ColorMode{0x03, 0x05, 2, 1, 1}},
		{EffectAlternating6, ColorMode{0x05, 0x06, 3, 1, 2}},
		{EffectBackwardsMovingAlternating3, ColorMode{0x05, 0x03, 4, 1, 2}},
		{EffectSuperBreathing, ColorMode{0x03, 0x00, 10, 1, 40}},
		{EffectRainbowPulse, ColorMode{0x0d, 0x00, 2, 0, 0}},
		{EffectBackwardsRainbowPulse, ColorMode{0x0b, 0x00, 2, 0, 0}},
		{EffectLoading, ColorMode{0x10, 0x00, 8, 1, 1}},
		{EffectWaterCooler, ColorMode{0x0f, 0x00, 6, 2, 2}},
		{EffectWings, ColorMode{0x00, 0x00, 11, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.effect.String(), func(t *testing.T) {
			got, err := ModeOf(tt.effect)
			if err != nil {
				t.Fatalf("ModeOf() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ModeOf() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEffectNames_RoundTrip(t *testing.T) {
	seen := make(map[string]Effect)
	for _, e := range Effects() {
		name := e.String()
		if name == "" || name[0] == 'E' {
			t.Errorf("effect %d has no name", int(e))
			continue
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("name %q used by %d and %d", name, int(prev), int(e))
		}
		seen[name] = e

		parsed, err := ParseEffect(name)
		if err != nil {
			t.Errorf("ParseEffect(%q) error: %v", name, err)
			continue
		}
		if parsed != e {
			t.Errorf("ParseEffect(%q) = %s, want %s", name, parsed, e)
		}
	}
}

func TestParseEffect_Normalizes(t *testing.T) {
	got, err := ParseEffect("  Backwards_Marquee_3 ")
	if err != nil {
		t.Fatalf("ParseEffect() error: %v", err)
	}
	if got != EffectBackwardsMarquee3 {
		t.Errorf("ParseEffect() = %s, want backwards-marquee-3", got)
	}

	if _, err := ParseEffect("disco"); err == nil {
		t.Error("ParseEffect(disco) expected error")
	}
}

func TestStrategyOf(t *testing.T) {
	for _, e := range Effects() {
		want := StrategyDefault
		switch e {
		case EffectSuperFixed, EffectSuperBreathing:
			want = StrategyDensePalette
		case EffectWings:
			want = StrategyPerZone
		}
		if got := StrategyOf(e); got != want {
			t.Errorf("StrategyOf(%s) = %s, want %s", e, got, want)
		}
	}
}

func TestDirectionByte(t *testing.T) {
	tests := []struct {
		effect Effect
		want   byte
	}{
		{EffectFixed, 0},
		{EffectMarquee3, 4},
		{EffectBackwardsMarquee6, 6},
		{EffectCoveringMarquee, 4},
		{EffectCoveringBackwardsMarquee, 6},
		{EffectMovingAlternating4, 1},
		{EffectBackwardsMovingAlternating4, 3},
		{EffectStarryNight, 1},
		{EffectBackwardsRainbowFlow, 2},
		{EffectBackwardsRainbowPulse, 2},
		{EffectBackwardsSpectrumWave, 2},
		{EffectBackwardsSuperRainbow, 2},
		{EffectAlternating5, 0},
	}

	for _, tt := range tests {
		if got := directionByte(tt.effect); got != tt.want {
			t.Errorf("directionByte(%s) = %d, want %d", tt.effect, got, tt.want)
		}
	}
}
