package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/muurk/krakenctl/internal/device"
	"github.com/muurk/krakenctl/internal/protocol"
)

// MQTTPasswordEnvVar supplies the MQTT password. It is never written to the
// config file.
const MQTTPasswordEnvVar = "KRAKENCTL_MQTT_PASSWORD"

// Registry represents the entire user configuration file.
type Registry struct {
	Version   int                   `yaml:"version"`
	Device    *DeviceSettings       `yaml:"device,omitempty"`
	Presets   map[string]*Preset    `yaml:"presets,omitempty"` // Keyed by preset name
	PumpCurve []protocol.CurvePoint `yaml:"pump_curve,omitempty"`
	Telemetry *Telemetry            `yaml:"telemetry,omitempty"`
}

// DeviceSettings overrides how the cooler is located and how long to wait on it.
type DeviceSettings struct {
	VendorID          uint16        `yaml:"vendor_id,omitempty"`
	ProductID         uint16        `yaml:"product_id,omitempty"`
	ReadTimeout       time.Duration `yaml:"read_timeout,omitempty"`
	HandshakeAttempts int           `yaml:"handshake_attempts,omitempty"`
	HandshakeTimeout  time.Duration `yaml:"handshake_timeout,omitempty"`
}

// Preset is a saved lighting setting. Colors are stored as hex strings.
type Preset struct {
	Channel string   `yaml:"channel"`
	Effect  string   `yaml:"effect"`
	Colors  []string `yaml:"colors,omitempty"`
	Speed   string   `yaml:"speed,omitempty"`
}

// Lighting is a preset resolved to protocol values.
type Lighting struct {
	Channel protocol.Channel
	Effect  protocol.Effect
	Colors  []protocol.Color
	Speed   protocol.SpeedLevel
}

// Telemetry configures the serve command.
type Telemetry struct {
	Listen    string        `yaml:"listen"`             // HTTP listen address
	Interval  time.Duration `yaml:"interval"`           // Status poll interval
	Advertise bool          `yaml:"advertise"`          // Announce over mDNS
	Instance  string        `yaml:"instance,omitempty"` // mDNS instance name (default: hostname)
	MQTT      *MQTTSettings `yaml:"mqtt,omitempty"`
}

// MQTTSettings configures the MQTT publisher.
type MQTTSettings struct {
	Enabled         bool   `yaml:"enabled"`
	Broker          string `yaml:"broker"` // e.g. tcp://localhost:1883
	ClientID        string `yaml:"client_id,omitempty"`
	Username        string `yaml:"username,omitempty"`
	TopicPrefix     string `yaml:"topic_prefix"`
	Discovery       bool   `yaml:"discovery"`
	DiscoveryPrefix string `yaml:"discovery_prefix,omitempty"`
	QoS             byte   `yaml:"qos"`
	// Password is NEVER stored in the config file; see MQTTPasswordEnvVar
}

// Password returns the MQTT password from the environment.
func (m *MQTTSettings) Password() string {
	return os.Getenv(MQTTPasswordEnvVar)
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:   1,
		Device:    &DeviceSettings{},
		Presets:   make(map[string]*Preset),
		Telemetry: defaultTelemetry(),
	}
}

func defaultTelemetry() *Telemetry {
	return &Telemetry{
		Listen:    ":9570",
		Interval:  time.Second,
		Advertise: true,
		MQTT: &MQTTSettings{
			Broker:          "tcp://localhost:1883",
			ClientID:        "krakenctl",
			TopicPrefix:     "krakenctl",
			Discovery:       true,
			DiscoveryPrefix: "homeassistant",
		},
	}
}

// DeviceIDs returns the USB vendor and product to open.
func (r *Registry) DeviceIDs() (uint16, uint16) {
	var vid, pid uint16 = protocol.VendorID, protocol.ProductID
	if r.Device != nil {
		if r.Device.VendorID != 0 {
			vid = r.Device.VendorID
		}
		if r.Device.ProductID != 0 {
			pid = r.Device.ProductID
		}
	}
	return vid, pid
}

// DeviceOptions returns session timing with configured overrides applied.
func (r *Registry) DeviceOptions() device.Options {
	opts := device.DefaultOptions()
	if r.Device == nil {
		return opts
	}
	if r.Device.ReadTimeout > 0 {
		opts.ReadTimeout = r.Device.ReadTimeout
	}
	if r.Device.HandshakeAttempts > 0 {
		opts.HandshakeAttempts = r.Device.HandshakeAttempts
	}
	if r.Device.HandshakeTimeout > 0 {
		opts.HandshakeTimeout = r.Device.HandshakeTimeout
	}
	return opts
}

// Resolve parses the preset and checks that the device would accept it.
func (p *Preset) Resolve() (*Lighting, error) {
	ch, err := protocol.ParseChannel(p.Channel)
	if err != nil {
		return nil, err
	}
	effect, err := protocol.ParseEffect(p.Effect)
	if err != nil {
		return nil, err
	}
	colors, err := protocol.ParseColors(p.Colors)
	if err != nil {
		return nil, err
	}
	speed := protocol.SpeedNormal
	if p.Speed != "" {
		if speed, err = protocol.ParseSpeed(p.Speed); err != nil {
			return nil, err
		}
	}
	if _, err := protocol.ValidateColors(effect, len(colors)); err != nil {
		return nil, err
	}
	return &Lighting{Channel: ch, Effect: effect, Colors: colors, Speed: speed}, nil
}

// NewPreset builds a preset from protocol values.
func NewPreset(l Lighting) *Preset {
	p := &Preset{
		Channel: l.Channel.String(),
		Effect:  l.Effect.String(),
		Speed:   l.Speed.String(),
	}
	for _, c := range l.Colors {
		p.Colors = append(p.Colors, c.Hex())
	}
	return p
}

// GetPreset retrieves a preset by name. Returns nil if it doesn't exist.
func (r *Registry) GetPreset(name string) *Preset {
	return r.Presets[name]
}

// SetPreset validates and stores a preset, replacing any with the same name.
func (r *Registry) SetPreset(name string, p *Preset) error {
	if name == "" {
		return fmt.Errorf("preset name is required")
	}
	if _, err := p.Resolve(); err != nil {
		return fmt.Errorf("invalid preset %q: %w", name, err)
	}
	if r.Presets == nil {
		r.Presets = make(map[string]*Preset)
	}
	r.Presets[name] = p
	return nil
}

// DeletePreset removes a preset and reports whether it existed.
func (r *Registry) DeletePreset(name string) bool {
	if _, ok := r.Presets[name]; !ok {
		return false
	}
	delete(r.Presets, name)
	return true
}

// PresetNames returns preset names in sorted order.
func (r *Registry) PresetNames() []string {
	names := make([]string, 0, len(r.Presets))
	for name := range r.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetPumpCurve validates and stores the pump curve.
func (r *Registry) SetPumpCurve(points []protocol.CurvePoint) error {
	if err := protocol.ValidateCurve(points); err != nil {
		return err
	}
	r.PumpCurve = append([]protocol.CurvePoint(nil), points...)
	return nil
}
