package protocol

import (
	"fmt"
)

// CurvePoint maps a liquid temperature to a pump duty.
type CurvePoint struct {
	Temperature int `yaml:"temperature" json:"temperature_celsius"`
	Duty        int `yaml:"duty" json:"duty_percent"`
}

// ValidateCurve checks that temperatures strictly increase and duties are percentages.
func ValidateCurve(points []CurvePoint) error {
	if len(points) == 0 {
		return &EncodeError{Kind: InvalidPumpCurve, Detail: "no points"}
	}
	for i, p := range points {
		if p.Duty < 0 || p.Duty > 100 {
			return &EncodeError{Kind: InvalidPumpCurve, Detail: fmt.Sprintf("point %d: duty %d%% out of range 0-100", i+1, p.Duty)}
		}
		if i > 0 && p.Temperature <= points[i-1].Temperature {
			return &EncodeError{Kind: InvalidPumpCurve, Detail: fmt.Sprintf("point %d: temperature %d°C not above %d°C", i+1, p.Temperature, points[i-1].Temperature)}
		}
	}
	return nil
}

// InterpolateCurve samples the curve at every whole degree from 20°C up to
// the critical temperature. Values are linearly interpolated, held flat
// outside the defined range, clamped to the pump limits and forced to 100% at
// the critical temperature.
func InterpolateCurve(points []CurvePoint) ([pumpCurvePoints]byte, error) {
	var duties [pumpCurvePoints]byte
	if err := ValidateCurve(points); err != nil {
		return duties, err
	}

	for i := range duties {
		temp := pumpCurveMinTemp + i
		duty := dutyAt(points, temp)
		if temp >= CriticalTemperature {
			duty = PumpMaxDuty
		}
		duties[i] = byte(clampDuty(duty))
	}
	return duties, nil
}

func dutyAt(points []CurvePoint, temp int) int {
	if temp <= points[0].Temperature {
		return points[0].Duty
	}
	last := points[len(points)-1]
	if temp >= last.Temperature {
		return last.Duty
	}
	for i := 1; i < len(points); i++ {
		lo, hi := points[i-1], points[i]
		if temp <= hi.Temperature {
			span := hi.Temperature - lo.Temperature
			return lo.Duty + (hi.Duty-lo.Duty)*(temp-lo.Temperature)/span
		}
	}
	return last.Duty
}

func clampDuty(d int) int {
	if d < PumpMinDuty {
		return PumpMinDuty
	}
	if d > PumpMaxDuty {
		return PumpMaxDuty
	}
	return d
}

// BuildPumpProfile encodes a temperature/duty curve for the pump:
//
//	[0]     0x72
//	[1]     pump channel id
//	[2-3]   0x00 0x00
//	[4-43]  duty for 20°C .. 59°C
func BuildPumpProfile(points []CurvePoint) (Frame, error) {
	duties, err := InterpolateCurve(points)
	if err != nil {
		return Frame{}, err
	}
	buf := []byte{OpPumpCurve, PumpChannelID, 0x00, 0x00}
	buf = append(buf, duties[:]...)
	return NewFrame(buf...), nil
}

// BuildFixedPumpDuty encodes a flat curve at duty percent.
func BuildFixedPumpDuty(duty int) (Frame, error) {
	return BuildPumpProfile([]CurvePoint{{Temperature: 0, Duty: duty}})
}
