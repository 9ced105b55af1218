package discovery

import (
	"testing"
)

func TestInstance_String(t *testing.T) {
	inst := &Instance{
		Name:     "workstation",
		Hostname: "workstation.local.",
		IP:       "192.168.4.16",
		Port:     9570,
	}

	expected := "krakenctl workstation (workstation.local.) at 192.168.4.16:9570"
	if inst.String() != expected {
		t.Errorf("Instance.String() = %v, want %v", inst.String(), expected)
	}
}

func TestInstance_URLs(t *testing.T) {
	tests := []struct {
		name     string
		inst     *Instance
		format   string
		wantBase string
		wantWS   string
	}{
		{
			name:     "default path",
			inst:     &Instance{IP: "192.168.4.16", Port: 9570},
			wantBase: "http://192.168.4.16:9570",
			wantWS:   "ws://192.168.4.16:9570/ws",
		},
		{
			name:     "advertised path with cbor",
			inst:     &Instance{IP: "10.0.0.5", Port: 8080, Metadata: map[string]string{"path": "/telemetry"}},
			format:   "cbor",
			wantBase: "http://10.0.0.5:8080",
			wantWS:   "ws://10.0.0.5:8080/telemetry?format=cbor",
		},
		{
			name:     "IPv6 address",
			inst:     &Instance{IP: "fe80::1", Port: 9570},
			wantBase: "http://[fe80::1]:9570",
			wantWS:   "ws://[fe80::1]:9570/ws",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inst.BaseURL(); got != tt.wantBase {
				t.Errorf("BaseURL() = %v, want %v", got, tt.wantBase)
			}
			if got := tt.inst.WebSocketURL(tt.format); got != tt.wantWS {
				t.Errorf("WebSocketURL() = %v, want %v", got, tt.wantWS)
			}
		})
	}
}

func TestInstance_GetMetadata(t *testing.T) {
	inst := &Instance{Metadata: map[string]string{"firmware": "1.10.0"}}
	if got := inst.Firmware(); got != "1.10.0" {
		t.Errorf("Firmware() = %q", got)
	}
	if got := inst.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %q", got)
	}

	var empty Instance
	if got := empty.GetMetadata("firmware"); got != "" {
		t.Errorf("GetMetadata on nil map = %q", got)
	}
}
