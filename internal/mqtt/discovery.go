package mqtt

import (
	"encoding/json"
	"strings"
)

// discoveryMsg is a Home Assistant MQTT discovery payload.
type discoveryMsg struct {
	Topic   string // e.g. "homeassistant/sensor/krakenctl_rig/liquid_temperature/config"
	Payload []byte // JSON, empty means delete
}

// haDevice is the "device" block in HA discovery.
type haDevice struct {
	Identifiers  []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name"`
	SWVersion    string   `json:"sw_version,omitempty"`
}

// haDiscovery is a generic HA discovery payload.
type haDiscovery struct {
	Name              string   `json:"name"`
	UniqueID          string   `json:"unique_id"`
	StateTopic        string   `json:"state_topic"`
	AvailabilityTopic string   `json:"availability_topic"`
	ValueTemplate     string   `json:"value_template,omitempty"`
	UnitOfMeasurement string   `json:"unit_of_measurement,omitempty"`
	DeviceClass       string   `json:"device_class,omitempty"`
	StateClass        string   `json:"state_class,omitempty"`
	Icon              string   `json:"icon,omitempty"`
	PayloadOn         string   `json:"payload_on,omitempty"`
	PayloadOff        string   `json:"payload_off,omitempty"`
	Device            haDevice `json:"device"`
}

// sensorDef describes one entity derived from the status payload.
type sensorDef struct {
	component   string // "sensor" or "binary_sensor"
	key         string
	name        string
	template    string
	unit        string
	deviceClass string
	stateClass  string
	icon        string
}

var sensors = []sensorDef{
	{
		component:   "sensor",
		key:         "liquid_temperature",
		name:        "Liquid Temperature",
		template:    "{{ value_json.liquid_temp_c }}",
		unit:        "°C",
		deviceClass: "temperature",
		stateClass:  "measurement",
	},
	{
		component:  "sensor",
		key:        "pump_speed",
		name:       "Pump Speed",
		template:   "{{ value_json.pump_rpm }}",
		unit:       "rpm",
		stateClass: "measurement",
		icon:       "mdi:pump",
	},
	{
		component:  "sensor",
		key:        "pump_duty",
		name:       "Pump Duty",
		template:   "{{ value_json.pump_duty_percent }}",
		unit:       "%",
		stateClass: "measurement",
		icon:       "mdi:gauge",
	},
	{
		component:   "binary_sensor",
		key:         "critical",
		name:        "Critical Temperature",
		template:    "{{ 'ON' if value_json.critical else 'OFF' }}",
		deviceClass: "heat",
	},
}

// nodeID returns the HA node identifier for a host name.
func nodeID(node string) string {
	return "krakenctl_" + sanitize(node)
}

// sanitize lowercases s and keeps only characters safe in MQTT topics.
func sanitize(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, s)
}

// buildDiscovery generates HA discovery messages for the cooler.
func buildDiscovery(cfg Config) []discoveryMsg {
	id := nodeID(cfg.NodeID)
	dev := haDevice{
		Identifiers:  []string{id},
		Manufacturer: "NZXT",
		Model:        "Kraken X3",
		Name:         "Kraken " + cfg.NodeID,
		SWVersion:    cfg.Firmware,
	}

	msgs := make([]discoveryMsg, 0, len(sensors))
	for _, s := range sensors {
		d := haDiscovery{
			Name:              s.name,
			UniqueID:          id + "_" + s.key,
			StateTopic:        cfg.statusTopic(),
			AvailabilityTopic: cfg.availabilityTopic(),
			ValueTemplate:     s.template,
			UnitOfMeasurement: s.unit,
			DeviceClass:       s.deviceClass,
			StateClass:        s.stateClass,
			Icon:              s.icon,
			Device:            dev,
		}
		if s.component == "binary_sensor" {
			d.PayloadOn, d.PayloadOff = "ON", "OFF"
		}
		msgs = append(msgs, discoveryMsg{
			Topic:   cfg.discoveryTopic(s.component, id, s.key),
			Payload: mustJSON(d),
		})
	}
	return msgs
}

// buildRemoveDiscovery generates empty retained payloads that remove every
// entity from HA.
func buildRemoveDiscovery(cfg Config) []discoveryMsg {
	id := nodeID(cfg.NodeID)
	msgs := make([]discoveryMsg, 0, len(sensors))
	for _, s := range sensors {
		msgs = append(msgs, discoveryMsg{Topic: cfg.discoveryTopic(s.component, id, s.key)})
	}
	return msgs
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
