package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/krakenctl/internal/logging"
)

const (
	// ServiceType is the mDNS service type krakenctl servers advertise
	ServiceType = "_krakenctl._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the telemetry server's default port
	DefaultPort = 9570

	// DefaultPath is the websocket endpoint when no path is advertised
	DefaultPath = "/ws"
)

// TXT record keys.
const (
	TXTFirmware = "firmware"
	TXTVersion  = "version"
	TXTPath     = "path"
)

// Metadata is published in the TXT record of an advertisement.
type Metadata struct {
	Firmware string
	Version  string
	Path     string
}

// TXT renders the metadata as key=value records, omitting empty values.
func (m Metadata) TXT() []string {
	var txt []string
	for _, kv := range [][2]string{
		{TXTFirmware, m.Firmware},
		{TXTVersion, m.Version},
		{TXTPath, m.Path},
	} {
		if kv[1] != "" {
			txt = append(txt, kv[0]+"="+kv[1])
		}
	}
	return txt
}

// Advertisement is a registered mDNS service.
type Advertisement struct {
	server *zeroconf.Server
	once   sync.Once
}

// Advertise registers a telemetry server under instance on all interfaces.
func Advertise(instance string, port int, meta Metadata) (*Advertisement, error) {
	if instance == "" {
		return nil, errors.New("mDNS instance name is empty")
	}
	if port <= 0 {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, meta.TXT(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising telemetry server",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertisement{server: server}, nil
}

// Shutdown withdraws the advertisement. Safe to call more than once.
func (a *Advertisement) Shutdown() {
	a.once.Do(a.server.Shutdown)
}

// Scanner handles mDNS discovery of telemetry servers
type Scanner struct {
	// Timeout is the maximum time to wait for responses
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses for telemetry servers until the timeout or ctx expires and
// returns everything found, deduplicated by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu        sync.Mutex
		instances []*Instance
		seen      = make(map[string]bool)
	)
	err := s.browse(ctx, func(inst *Instance) bool {
		mu.Lock()
		defer mu.Unlock()
		if !seen[inst.Name] {
			seen[inst.Name] = true
			instances = append(instances, inst)
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return instances, nil
}

// Find waits for the named instance. An empty name matches the first
// server to answer.
func (s *Scanner) Find(ctx context.Context, name string) (*Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Instance, 1)
	err := s.browse(ctx, func(inst *Instance) bool {
		if name != "" && inst.Name != name {
			return false
		}
		select {
		case found <- inst:
		default:
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	select {
	case inst := <-found:
		return inst, nil
	default:
	}
	if name == "" {
		return nil, errors.New("no krakenctl server found within timeout")
	}
	return nil, fmt.Errorf("krakenctl server %q not found within timeout", name)
}

// browse feeds parsed entries to visit until ctx is done or visit returns
// true. It blocks until browsing stops.
func (s *Scanner) browse(ctx context.Context, visit func(*Instance) bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			inst := s.parseServiceEntry(entry)
			if inst == nil {
				continue
			}
			logging.Debug("Discovered telemetry server", zap.String("instance", inst.String()))
			if visit(inst) {
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// zeroconf closes entries once browsing stops.
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

// parseServiceEntry converts a zeroconf service entry to an Instance
// Returns nil if the entry cannot be reached
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Instance {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}

	// Fallback to IPv6 if no IPv4
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// Parse TXT records into metadata
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		key, value, _ := strings.Cut(txt, "=")
		if key != "" {
			metadata[key] = value
		}
	}

	return &Instance{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
