package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/krakenctl/internal/config"
	"github.com/muurk/krakenctl/internal/discovery"
	"github.com/muurk/krakenctl/internal/logging"
	"github.com/muurk/krakenctl/internal/mqtt"
	"github.com/muurk/krakenctl/internal/server"
	"github.com/muurk/krakenctl/internal/telemetry"
	"github.com/muurk/krakenctl/internal/ui"
	"github.com/muurk/krakenctl/internal/version"
)

var (
	serveListen      string
	serveInterval    time.Duration
	serveNoAdvertise bool
	serveMQTT        bool
	scanTimeout      time.Duration
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "HTTP listen address (default from config, :9570)")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 0, "Status poll interval (default from config, 1s)")
	serveCmd.Flags().BoolVar(&serveNoAdvertise, "no-advertise", false, "Do not announce the server over mDNS")
	serveCmd.Flags().BoolVar(&serveMQTT, "mqtt", false, "Publish to MQTT even if disabled in the config file")

	scanCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", discovery.DefaultScanTimeout, "How long to listen for mDNS answers")
	scanCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
}

// serveCmd runs the telemetry server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve live telemetry over WebSocket, mDNS and MQTT",
	Long: `Poll the cooler and stream readings to network clients.

Endpoints:
  /ws               WebSocket stream (JSON; ?format=cbor for CBOR)
  /status           latest reading as JSON
  /healthz          poller health

The server announces itself as _krakenctl._tcp over mDNS unless
--no-advertise is given. With MQTT enabled in the config file (or --mqtt)
readings are published to <topic_prefix>/status together with Home
Assistant discovery configs. The MQTT password is read from
KRAKENCTL_MQTT_PASSWORD.`,
	Example: `  krakenctl serve
  krakenctl serve --listen 127.0.0.1:9570 --interval 2s --no-advertise`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(os.Stdout)

	reg, err := loadConfig()
	if err != nil {
		return err
	}
	tcfg := reg.Telemetry
	if serveListen != "" {
		tcfg.Listen = serveListen
	}
	if serveInterval > 0 {
		tcfg.Interval = serveInterval
	}
	if serveNoAdvertise {
		tcfg.Advertise = false
	}

	ctx, cancel := operationContext()
	session, err := openSession(ctx, reg)
	cancel()
	if err != nil {
		printer.PrintDeviceError("Could not open cooler", err)
		return err
	}
	defer func() { _ = session.Close() }()

	firmware := session.FirmwareVersion().String()
	poller := telemetry.NewPoller(session, tcfg.Interval, firmware)
	srv := server.New(&server.Config{
		Listen:    tcfg.Listen,
		Advertise: tcfg.Advertise,
		Instance:  tcfg.Instance,
		Firmware:  firmware,
		Version:   version.Version,
	}, poller)

	if m := tcfg.MQTT; m != nil && (m.Enabled || serveMQTT) {
		pub, err := newMQTTPublisher(m, tcfg.Instance, firmware)
		if err != nil {
			printer.PrintError("MQTT unavailable", err, []string{
				"Check telemetry.mqtt.broker in the config file",
				"Set KRAKENCTL_MQTT_PASSWORD if the broker requires a login",
			})
			return err
		}
		srv.AddService("mqtt", func(ctx context.Context) error {
			return pub.Run(ctx, poller)
		})
	}

	if err := srv.Listen(); err != nil {
		printer.PrintError("Could not start server", err, []string{
			"Another process may be using the port; try --listen :0",
		})
		return err
	}

	printer.PrintHeader("Telemetry server", "serve",
		ui.Param{Key: "Address", Value: srv.Addr().String()},
		ui.Param{Key: "Firmware", Value: firmware},
		ui.Param{Key: "Interval", Value: tcfg.Interval.String()},
		ui.Param{Key: "mDNS", Value: onOff(tcfg.Advertise)},
	)
	printer.Println("Press Ctrl+C to stop.")

	return srv.Start(context.Background())
}

func newMQTTPublisher(m *config.MQTTSettings, instance, firmware string) (*mqtt.Publisher, error) {
	pub, err := mqtt.NewPublisher(mqtt.Config{
		Broker:          m.Broker,
		ClientID:        m.ClientID,
		Username:        m.Username,
		Password:        m.Password(),
		TopicPrefix:     m.TopicPrefix,
		QoS:             m.QoS,
		Discovery:       m.Discovery,
		DiscoveryPrefix: m.DiscoveryPrefix,
		NodeID:          instance,
		Firmware:        firmware,
	})
	if err != nil {
		return nil, err
	}
	if err := pub.Connect(); err != nil {
		return nil, err
	}
	logging.Info("MQTT publisher connected", zap.String("broker", m.Broker))
	return pub, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// scanCmd finds telemetry servers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find krakenctl telemetry servers on the network",
	Long: `Browse mDNS for _krakenctl._tcp services started with 'krakenctl serve'
and print their addresses and stream URLs.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(os.Stdout)

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout

	if !jsonOutput {
		printer.Println(fmt.Sprintf("Scanning for krakenctl servers (timeout: %s)...", scanTimeout))
		printer.Newline()
	}

	instances, err := scanner.Scan(context.Background())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if jsonOutput {
		return printJSON(instances)
	}

	if len(instances) == 0 {
		printer.PrintWarning("No servers found",
			ui.Param{Key: "Hint", Value: "Start one with 'krakenctl serve'"},
			ui.Param{Key: "Hint", Value: "mDNS needs UDP port 5353 open"},
		)
		return nil
	}

	printer.Println(fmt.Sprintf("Found %d server(s):", len(instances)))
	printer.Newline()
	for i, inst := range instances {
		printer.Println(fmt.Sprintf("%d. %s", i+1, inst.Name))
		printer.Println("   Address:  " + inst.HostPort())
		if fw := inst.Firmware(); fw != "" {
			printer.Println("   Firmware: " + fw)
		}
		printer.Println("   Stream:   " + inst.WebSocketURL(""))
		printer.Newline()
	}
	return nil
}
