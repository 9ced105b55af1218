package mqtt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/muurk/krakenctl/internal/logging"
	"github.com/muurk/krakenctl/internal/telemetry"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second

	availabilityOnline  = "online"
	availabilityOffline = "offline"
)

// Config holds MQTT publisher configuration.
type Config struct {
	Broker          string
	ClientID        string
	Username        string
	Password        string
	TopicPrefix     string
	QoS             byte
	Discovery       bool   // publish Home Assistant discovery configs
	DiscoveryPrefix string // usually "homeassistant"
	NodeID          string // distinguishes coolers on different hosts, defaults to the hostname
	Firmware        string
}

func (c Config) statusTopic() string       { return c.TopicPrefix + "/status" }
func (c Config) availabilityTopic() string { return c.TopicPrefix + "/availability" }

func (c Config) discoveryTopic(component, node, key string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", c.DiscoveryPrefix, component, node, key)
}

func (c Config) withDefaults() Config {
	if c.ClientID == "" {
		c.ClientID = "krakenctl"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "krakenctl"
	}
	if c.DiscoveryPrefix == "" {
		c.DiscoveryPrefix = "homeassistant"
	}
	if c.NodeID == "" {
		c.NodeID, _ = os.Hostname()
	}
	if c.NodeID == "" {
		c.NodeID = "local"
	}
	return c
}

// Client is the subset of the paho client the publisher uses.
type Client interface {
	Connect() pahomqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

// Source yields readings to publish. *telemetry.Poller implements it.
type Source interface {
	Subscribe() (<-chan telemetry.Reading, func())
}

// Publisher mirrors cooler telemetry to an MQTT broker.
type Publisher struct {
	cfg    Config
	client Client
}

// NewPublisher creates a publisher with a paho client. Call Connect before Run.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt broker is not configured")
	}
	p := &Publisher{cfg: cfg.withDefaults()}

	opts := pahomqtt.NewClientOptions().
		AddBroker(p.cfg.Broker).
		SetClientID(p.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(p.cfg.availabilityTopic(), availabilityOffline, 1, true).
		SetOnConnectHandler(func(_ pahomqtt.Client) {
			logging.Info("MQTT connected", zap.String("broker", p.cfg.Broker))
			p.announce()
		}).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			logging.Warn("MQTT connection lost", zap.Error(err))
		})

	if p.cfg.Username != "" {
		opts.SetUsername(p.cfg.Username)
		opts.SetPassword(p.cfg.Password)
	}

	p.client = pahomqtt.NewClient(opts)
	return p, nil
}

// newPublisher wires an existing client.
func newPublisher(cfg Config, client Client) *Publisher {
	return &Publisher{cfg: cfg.withDefaults(), client: client}
}

// Connect dials the broker. The on-connect handler announces availability
// and discovery, and runs again after every reconnect.
func (p *Publisher) Connect() error {
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

// Run publishes every reading from src until ctx is cancelled, then marks
// the cooler offline and disconnects.
func (p *Publisher) Run(ctx context.Context, src Source) error {
	readings, unsubscribe := src.Subscribe()
	defer unsubscribe()

	logging.Info("MQTT publisher started",
		zap.String("prefix", p.cfg.TopicPrefix),
		zap.Bool("discovery", p.cfg.Discovery),
	)

	for {
		select {
		case <-ctx.Done():
			p.Stop()
			return nil
		case r, ok := <-readings:
			if !ok {
				p.Stop()
				return nil
			}
			p.PublishReading(r)
		}
	}
}

// PublishReading publishes r as JSON on the status topic.
func (p *Publisher) PublishReading(r telemetry.Reading) {
	p.publish(p.cfg.statusTopic(), mustJSON(r), false)
}

// RemoveDiscovery deletes the retained HA discovery configs.
func (p *Publisher) RemoveDiscovery() {
	for _, msg := range buildRemoveDiscovery(p.cfg) {
		p.publish(msg.Topic, msg.Payload, true)
	}
}

// Stop publishes the offline state and disconnects.
func (p *Publisher) Stop() {
	p.publishSync(p.cfg.availabilityTopic(), []byte(availabilityOffline), true)
	p.client.Disconnect(1000)
	logging.Info("MQTT publisher stopped")
}

func (p *Publisher) announce() {
	p.publish(p.cfg.availabilityTopic(), []byte(availabilityOnline), true)
	if !p.cfg.Discovery {
		return
	}
	for _, msg := range buildDiscovery(p.cfg) {
		p.publish(msg.Topic, msg.Payload, true)
	}
	logging.Info("Published HA discovery", zap.String("node", nodeID(p.cfg.NodeID)))
}

func (p *Publisher) publish(topic string, payload []byte, retained bool) {
	token := p.client.Publish(topic, p.cfg.QoS, retained, payload)
	go waitToken(token, topic)
}

// publishSync waits for delivery; used before disconnecting.
func (p *Publisher) publishSync(topic string, payload []byte, retained bool) {
	waitToken(p.client.Publish(topic, p.cfg.QoS, retained, payload), topic)
}

func waitToken(token pahomqtt.Token, topic string) {
	if !token.WaitTimeout(publishTimeout) {
		logging.Warn("MQTT publish timeout", zap.String("topic", topic))
	} else if err := token.Error(); err != nil {
		logging.Warn("MQTT publish error", zap.String("topic", topic), zap.Error(err))
	}
}
