package protocol

import (
	"errors"
	"testing"
)

func TestBuildFixedPumpDuty(t *testing.T) {
	f, err := BuildFixedPumpDuty(60)
	if err != nil {
		t.Fatalf("BuildFixedPumpDuty() error: %v", err)
	}
	if f[0] != 0x72 || f[1] != PumpChannelID || f[2] != 0 || f[3] != 0 {
		t.Errorf("header = % x, want 72 01 00 00", f[:4])
	}
	for i := 0; i < pumpCurvePoints-1; i++ {
		if f[4+i] != 60 {
			t.Errorf("duty[%d°C] = %d, want 60", pumpCurveMinTemp+i, f[4+i])
		}
	}
	if last := f[4+pumpCurvePoints-1]; last != 100 {
		t.Errorf("duty at critical temperature = %d, want 100", last)
	}
	for i := 4 + pumpCurvePoints; i < FrameSize; i++ {
		if f[i] != 0 {
			t.Errorf("padding byte %d = 0x%02x", i, f[i])
		}
	}
}

func TestBuildFixedPumpDuty_Clamps(t *testing.T) {
	f, err := BuildFixedPumpDuty(0)
	if err != nil {
		t.Fatalf("BuildFixedPumpDuty(0) error: %v", err)
	}
	if f[4] != PumpMinDuty {
		t.Errorf("duty = %d, want clamped %d", f[4], PumpMinDuty)
	}

	if _, err := BuildFixedPumpDuty(101); !errors.Is(err, ErrInvalidPumpCurve) {
		t.Errorf("BuildFixedPumpDuty(101) error = %v, want ErrInvalidPumpCurve", err)
	}
}

func TestInterpolateCurve(t *testing.T) {
	duties, err := InterpolateCurve([]CurvePoint{
		{Temperature: 30, Duty: 40},
		{Temperature: 40, Duty: 80},
	})
	if err != nil {
		t.Fatalf("InterpolateCurve() error: %v", err)
	}

	tests := []struct {
		temp int
		want byte
	}{
		{20, 40},
		{30, 40},
		{35, 60},
		{39, 76},
		{40, 80},
		{50, 80},
		{59, 100},
	}
	for _, tt := range tests {
		if got := duties[tt.temp-pumpCurveMinTemp]; got != tt.want {
			t.Errorf("duty at %d°C = %d, want %d", tt.temp, got, tt.want)
		}
	}
}

func TestValidateCurve(t *testing.T) {
	tests := []struct {
		name   string
		points []CurvePoint
	}{
		{"empty", nil},
		{"negative duty", []CurvePoint{{Temperature: 30, Duty: -1}}},
		{"not increasing", []CurvePoint{{Temperature: 30, Duty: 40}, {Temperature: 30, Duty: 50}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateCurve(tt.points); !errors.Is(err, ErrInvalidPumpCurve) {
				t.Errorf("ValidateCurve() error = %v, want ErrInvalidPumpCurve", err)
			}
		})
	}
}
