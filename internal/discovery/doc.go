// Package discovery advertises and finds krakenctl telemetry servers with
// multicast DNS.
//
// A server started with `krakenctl serve` registers itself as a
// "_krakenctl._tcp" service. Its TXT record carries the cooler firmware,
// the krakenctl version and the websocket path, so a client on another
// machine can connect without knowing the address.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	instances, err := scanner.Scan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, inst := range instances {
//	    fmt.Println(inst, inst.WebSocketURL("cbor"))
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
