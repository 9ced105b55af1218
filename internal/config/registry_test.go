package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/krakenctl/internal/device"
	"github.com/muurk/krakenctl/internal/protocol"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup only applies on Linux")
	}
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(tmp, "krakenctl"); configDir != want {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Presets == nil {
		t.Error("NewRegistry().Presets should not be nil")
	}
	if reg.Telemetry == nil || reg.Telemetry.MQTT == nil {
		t.Fatal("NewRegistry().Telemetry should carry MQTT defaults")
	}
	if reg.Telemetry.Interval != time.Second {
		t.Errorf("Telemetry.Interval = %v, want 1s", reg.Telemetry.Interval)
	}
	if reg.Telemetry.MQTT.Enabled {
		t.Error("MQTT should be disabled by default")
	}
}

func TestRegistryDeviceDefaults(t *testing.T) {
	reg := NewRegistry()

	vid, pid := reg.DeviceIDs()
	if vid != 0x1e71 || pid != 0x2007 {
		t.Errorf("DeviceIDs() = %04x:%04x, want 1e71:2007", vid, pid)
	}
	if got := reg.DeviceOptions(); got != device.DefaultOptions() {
		t.Errorf("DeviceOptions() = %+v, want defaults", got)
	}

	reg.Device.HandshakeAttempts = 20
	reg.Device.ReadTimeout = time.Second
	opts := reg.DeviceOptions()
	if opts.HandshakeAttempts != 20 || opts.ReadTimeout != time.Second {
		t.Errorf("DeviceOptions() = %+v, overrides not applied", opts)
	}
	if opts.HandshakeTimeout != device.DefaultHandshakeTimeout {
		t.Errorf("HandshakeTimeout = %v, want default", opts.HandshakeTimeout)
	}
}

func TestRegistrySetPreset(t *testing.T) {
	tests := []struct {
		name    string
		preset  *Preset
		wantErr bool
	}{
		{"fixed red", &Preset{Channel: "ring", Effect: "fixed", Colors: []string{"#ff0000"}}, false},
		{"spectrum", &Preset{Channel: "sync", Effect: "spectrum-wave", Speed: "fastest"}, false},
		{"unknown effect", &Preset{Channel: "ring", Effect: "disco"}, true},
		{"unknown channel", &Preset{Channel: "fan", Effect: "fixed", Colors: []string{"#fff"}}, true},
		{"bad color", &Preset{Channel: "ring", Effect: "fixed", Colors: []string{"nope"}}, true},
		{"too many colors", &Preset{Channel: "ring", Effect: "fixed", Colors: []string{"#fff", "#000"}}, true},
		{"bad speed", &Preset{Channel: "logo", Effect: "pulse", Colors: []string{"#fff"}, Speed: "warp"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			err := reg.SetPreset(tt.name, tt.preset)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetPreset() error = %v, wantErr %v", err, tt.wantErr)
			}
			stored := reg.GetPreset(tt.name) != nil
			if stored == tt.wantErr {
				t.Errorf("preset stored = %v after error = %v", stored, err)
			}
		})
	}
}

func TestPresetRoundTripThroughLighting(t *testing.T) {
	l := Lighting{
		Channel: protocol.ChannelLogo,
		Effect:  protocol.EffectBreathing,
		Colors:  []protocol.Color{{R: 0x20, B: 0x40}},
		Speed:   protocol.SpeedSlower,
	}

	p := NewPreset(l)
	if p.Channel != "logo" || p.Effect != "breathing" || p.Speed != "slower" {
		t.Errorf("NewPreset() = %+v", p)
	}
	if len(p.Colors) != 1 || p.Colors[0] != "#200040" {
		t.Errorf("Colors = %v, want [#200040]", p.Colors)
	}

	got, err := p.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Channel != l.Channel || got.Effect != l.Effect || got.Speed != l.Speed || got.Colors[0] != l.Colors[0] {
		t.Errorf("Resolve() = %+v, want %+v", got, l)
	}
}

func TestRegistryDeletePreset(t *testing.T) {
	reg := NewRegistry()
	_ = reg.SetPreset("b", &Preset{Channel: "ring", Effect: "off"})
	_ = reg.SetPreset("a", &Preset{Channel: "ring", Effect: "off"})

	if names := reg.PresetNames(); strings.Join(names, ",") != "a,b" {
		t.Errorf("PresetNames() = %v, want [a b]", names)
	}
	if !reg.DeletePreset("a") {
		t.Error("DeletePreset(a) = false, want true")
	}
	if reg.DeletePreset("a") {
		t.Error("second DeletePreset(a) = true, want false")
	}
}

func TestRegistrySetPumpCurve(t *testing.T) {
	reg := NewRegistry()
	if err := reg.SetPumpCurve([]protocol.CurvePoint{{Temperature: 40, Duty: 50}, {Temperature: 30, Duty: 60}}); err == nil {
		t.Error("SetPumpCurve() accepted decreasing temperatures")
	}
	if reg.PumpCurve != nil {
		t.Error("invalid curve should not be stored")
	}

	curve := []protocol.CurvePoint{{Temperature: 25, Duty: 30}, {Temperature: 40, Duty: 70}}
	if err := reg.SetPumpCurve(curve); err != nil {
		t.Fatalf("SetPumpCurve() error = %v", err)
	}
	curve[0].Duty = 99
	if reg.PumpCurve[0].Duty != 30 {
		t.Error("SetPumpCurve() should copy its input")
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.Device.HandshakeTimeout = 7 * time.Second
	if err := reg.SetPreset("night", &Preset{Channel: "ring", Effect: "breathing", Colors: []string{"#200040"}, Speed: "slower"}); err != nil {
		t.Fatalf("SetPreset() error = %v", err)
	}
	if err := reg.SetPumpCurve([]protocol.CurvePoint{{Temperature: 25, Duty: 30}, {Temperature: 40, Duty: 70}}); err != nil {
		t.Fatalf("SetPumpCurve() error = %v", err)
	}
	reg.Telemetry.MQTT.Enabled = true
	reg.Telemetry.MQTT.Broker = "tcp://broker:1883"

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Device.HandshakeTimeout != 7*time.Second {
		t.Errorf("HandshakeTimeout = %v, want 7s", loaded.Device.HandshakeTimeout)
	}
	p := loaded.GetPreset("night")
	if p == nil || p.Effect != "breathing" || p.Colors[0] != "#200040" {
		t.Errorf("loaded preset = %+v", p)
	}
	if len(loaded.PumpCurve) != 2 || loaded.PumpCurve[1].Duty != 70 {
		t.Errorf("loaded pump curve = %+v", loaded.PumpCurve)
	}
	if !loaded.Telemetry.MQTT.Enabled || loaded.Telemetry.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("loaded MQTT = %+v", loaded.Telemetry.MQTT)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	reg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reg.Version != 1 || reg.Telemetry == nil {
		t.Errorf("LoadFrom() = %+v, want defaults", reg)
	}
}

func TestLoadFromRejectsInvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong version", "version: 2\n"},
		{"bad yaml", "version: [1\n"},
		{"bad preset", "version: 1\npresets:\n  x:\n    channel: ring\n    effect: fixed\n"},
		{"bad curve", "version: 1\npump_curve:\n  - {temperature: 30, duty: 150}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("LoadFrom() error = nil, want error")
			}
		})
	}
}

func TestLoadFromFillsMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\ntelemetry:\n  listen: \":8080\"\n  interval: 2s\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reg.Telemetry.Listen != ":8080" || reg.Telemetry.Interval != 2*time.Second {
		t.Errorf("Telemetry = %+v", reg.Telemetry)
	}
	if reg.Telemetry.MQTT == nil || reg.Device == nil || reg.Presets == nil {
		t.Error("missing sections should be filled with defaults")
	}
}

func TestMQTTPasswordFromEnvironment(t *testing.T) {
	t.Setenv(MQTTPasswordEnvVar, "s3cret")
	m := &MQTTSettings{}
	if m.Password() != "s3cret" {
		t.Errorf("Password() = %q, want s3cret", m.Password())
	}
}

func BenchmarkPresetResolve(b *testing.B) {
	p := &Preset{Channel: "ring", Effect: "fading", Colors: []string{"#ff0000", "#00ff00", "#0000ff"}}
	for i := 0; i < b.N; i++ {
		_, _ = p.Resolve()
	}
}
