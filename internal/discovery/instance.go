package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Instance represents a krakenctl telemetry server found on the network
type Instance struct {
	// Name is the mDNS instance name, usually the host running the server
	Name string

	// Hostname is the mDNS hostname (e.g., "workstation.local.")
	Hostname string

	// IP is the advertised address, IPv4 preferred
	IP string

	// Port is the telemetry server's HTTP port
	Port int

	// Metadata contains the TXT record data
	// Common fields: "firmware=1.10.0", "version=0.3.0", "path=/ws"
	Metadata map[string]string

	// DiscoveredAt is when the instance was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the instance
func (i *Instance) String() string {
	return fmt.Sprintf("krakenctl %s (%s) at %s", i.Name, i.Hostname, i.HostPort())
}

// HostPort joins IP and port, bracketing IPv6 addresses.
func (i *Instance) HostPort() string {
	return net.JoinHostPort(i.IP, strconv.Itoa(i.Port))
}

// BaseURL returns the HTTP base URL for the instance
func (i *Instance) BaseURL() string {
	return "http://" + i.HostPort()
}

// WebSocketURL returns the telemetry stream URL. format may be empty.
func (i *Instance) WebSocketURL(format string) string {
	path := i.GetMetadata(TXTPath)
	if path == "" {
		path = DefaultPath
	}
	u := "ws://" + i.HostPort() + path
	if format != "" {
		u += "?format=" + format
	}
	return u
}

// Firmware returns the cooler firmware version advertised by the instance.
func (i *Instance) Firmware() string {
	return i.GetMetadata(TXTFirmware)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (i *Instance) GetMetadata(key string) string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata[key]
}
