package discovery

import (
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entry(instance, host string, port int, v4, v6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	return &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: instance, Service: ServiceType, Domain: ServiceDomain},
		HostName:      host,
		Port:          port,
		AddrIPv4:      v4,
		AddrIPv6:      v6,
		Text:          txt,
	}
}

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantName string
		wantIP   string
		wantPort int
	}{
		{
			name:     "IPv4 server",
			entry:    entry("workstation", "workstation.local.", 9570, []net.IP{net.ParseIP("192.168.4.16")}, nil, "firmware=1.10.0"),
			wantName: "workstation",
			wantIP:   "192.168.4.16",
			wantPort: 9570,
		},
		{
			name:     "custom port",
			entry:    entry("rig", "rig.local.", 8080, []net.IP{net.ParseIP("10.0.0.5")}, nil),
			wantName: "rig",
			wantIP:   "10.0.0.5",
			wantPort: 8080,
		},
		{
			name:     "no port specified (should default)",
			entry:    entry("rig", "rig.local.", 0, []net.IP{net.ParseIP("172.16.0.1")}, nil),
			wantName: "rig",
			wantIP:   "172.16.0.1",
			wantPort: DefaultPort,
		},
		{
			name:     "IPv6 only",
			entry:    entry("rig", "rig.local.", 9570, nil, []net.IP{net.ParseIP("fe80::1")}),
			wantName: "rig",
			wantIP:   "fe80::1",
			wantPort: 9570,
		},
		{
			name:     "both families (should prefer IPv4)",
			entry:    entry("rig", "rig.local.", 9570, []net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}),
			wantName: "rig",
			wantIP:   "192.168.1.50",
			wantPort: 9570,
		},
		{
			name:    "no IP address",
			entry:   entry("rig", "rig.local.", 9570, nil, nil),
			wantNil: true,
		},
		{
			name:    "empty instance name",
			entry:   entry("", "rig.local.", 9570, []net.IP{net.ParseIP("192.168.1.1")}, nil),
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if inst != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", inst)
				}
				return
			}

			if inst == nil {
				t.Fatal("parseServiceEntry() = nil, want instance")
			}
			if inst.Name != tt.wantName {
				t.Errorf("Name = %v, want %v", inst.Name, tt.wantName)
			}
			if inst.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", inst.IP, tt.wantIP)
			}
			if inst.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", inst.Port, tt.wantPort)
			}
			if inst.Hostname != tt.entry.HostName {
				t.Errorf("Hostname = %v, want %v", inst.Hostname, tt.entry.HostName)
			}
			if time.Since(inst.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", inst.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	e := entry("rig", "rig.local.", 9570, []net.IP{net.ParseIP("192.168.4.16")}, nil,
		"firmware=1.10.0", "path=/ws", "flag", "note=a=b", "=orphan")

	inst := scanner.parseServiceEntry(e)
	if inst == nil {
		t.Fatal("parseServiceEntry() = nil, want instance")
	}

	expected := map[string]string{
		"firmware": "1.10.0",
		"path":     "/ws",
		"flag":     "", // key without value
		"note":     "a=b",
	}
	if !reflect.DeepEqual(inst.Metadata, expected) {
		t.Errorf("Metadata = %v, want %v", inst.Metadata, expected)
	}
	if inst.Firmware() != "1.10.0" {
		t.Errorf("Firmware() = %q", inst.Firmware())
	}
}

func TestMetadata_TXT(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
		want []string
	}{
		{"all fields", Metadata{Firmware: "1.10.0", Version: "0.3.0", Path: "/ws"}, []string{"firmware=1.10.0", "version=0.3.0", "path=/ws"}},
		{"omits empty values", Metadata{Path: "/ws"}, []string{"path=/ws"}},
		{"empty", Metadata{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.TXT(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TXT() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdvertise_Validation(t *testing.T) {
	if _, err := Advertise("", 9570, Metadata{}); err == nil {
		t.Error("Advertise() with empty instance should fail")
	}
	if _, err := Advertise("rig", 0, Metadata{}); err == nil {
		t.Error("Advertise() with port 0 should fail")
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

// Live browse and register tests need multicast and are not run here.
