package protocol

import (
	"math"
	"testing"
)

func TestDecodeStatus(t *testing.T) {
	var f Frame
	f[0], f[1] = 0x75, 0x01
	f[15] = 30
	f[16] = 5
	f[17], f[18] = 0x2c, 0x01
	f[19] = 60

	s := DecodeStatus(f)
	if math.Abs(s.LiquidTempC-30.5) > 1e-9 {
		t.Errorf("LiquidTempC = %v, want 30.5", s.LiquidTempC)
	}
	if s.PumpRPM != 300 {
		t.Errorf("PumpRPM = %d, want 300", s.PumpRPM)
	}
	if s.PumpDutyPercent != 60 {
		t.Errorf("PumpDutyPercent = %d, want 60", s.PumpDutyPercent)
	}
	if !IsStatusFrame(f) {
		t.Error("IsStatusFrame() = false, want true")
	}
	if s.Critical() {
		t.Error("Critical() = true at 30.5°C")
	}
}

func TestDecodeStatus_Total(t *testing.T) {
	var zero, full Frame
	for i := range full {
		full[i] = 0xff
	}

	if s := DecodeStatus(zero); s != (Status{}) {
		t.Errorf("DecodeStatus(zero) = %+v, want zero status", s)
	}

	s := DecodeStatus(full)
	if s.PumpRPM != 0xffff || s.PumpDutyPercent != 0xff {
		t.Errorf("DecodeStatus(full) = %+v", s)
	}
	if !s.Critical() {
		t.Error("Critical() = false for 280.5°C")
	}
	if IsStatusFrame(zero) {
		t.Error("IsStatusFrame(zero) = true")
	}
}

func TestParseFirmwareVersion(t *testing.T) {
	f := NewFrame(0x11, 0x01)
	f[0x11], f[0x12], f[0x13] = 1, 10, 0

	if !IsFirmwareInfo(f) {
		t.Fatal("IsFirmwareInfo() = false")
	}
	v, err := ParseFirmwareVersion(f)
	if err != nil {
		t.Fatalf("ParseFirmwareVersion() error: %v", err)
	}
	if v.String() != "1.10.0" {
		t.Errorf("version = %s, want 1.10.0", v)
	}

	if _, err := ParseFirmwareVersion(NewFrame(0x21, 0x03)); err == nil {
		t.Error("expected error for lighting info reply")
	}
}

func TestIsLightingInfo(t *testing.T) {
	if !IsLightingInfo(NewFrame(0x21, 0x03)) {
		t.Error("IsLightingInfo(21 03) = false")
	}
	if IsLightingInfo(NewFrame(0x21, 0x01)) {
		t.Error("IsLightingInfo(21 01) = true")
	}
}

func TestFrameFromBytes(t *testing.T) {
	f, err := FrameFromBytes([]byte{0x75, 0x01})
	if err != nil {
		t.Fatalf("FrameFromBytes() error: %v", err)
	}
	if !IsStatusFrame(f) {
		t.Error("short read lost its tag")
	}

	if _, err := FrameFromBytes(make([]byte, FrameSize+1)); err == nil {
		t.Error("expected error for oversize report")
	}
}
