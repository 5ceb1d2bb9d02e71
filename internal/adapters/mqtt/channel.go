// Package mqtt implements the command channel on an MQTT broker.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

const (
	// DefaultConnectTimeout bounds one connect or subscribe round trip.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultInboxSize is the number of messages buffered between polls.
	DefaultInboxSize = 32

	disconnectQuiesceMillis = 250
)

var errTimeout = errors.New("mqtt: operation timed out")

// Options configures a Channel.
type Options struct {
	BrokerURL      string
	ClientID       string
	Username       string
	Password       string
	ConnectTimeout time.Duration
	InboxSize      int
}

type message struct {
	topic   string
	payload []byte
}

// Channel implements ports.CommandChannel with paho.
//
// Paho delivers messages on its own goroutine. They are queued in a bounded
// inbox and handed to the handler from Poll, on the caller's goroutine.
// Auto-reconnect is off so that a fresh connection never carries
// subscriptions the caller did not make.
type Channel struct {
	opts    Options
	logger  ports.Logger
	inbox   chan message
	handler ports.MessageHandler

	mu     sync.Mutex
	client paho.Client
}

// NewChannel creates a disconnected channel.
func NewChannel(opts Options, logger ports.Logger) *Channel {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = DefaultInboxSize
	}
	return &Channel{
		opts:   opts,
		logger: logger,
		inbox:  make(chan message, opts.InboxSize),
	}
}

// Connected reports whether the broker connection is open.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil && c.client.IsConnectionOpen()
}

// Connect opens a new clean session with the broker.
func (c *Channel) Connect(ctx context.Context) error {
	opts := paho.NewClientOptions()
	opts.AddBroker(c.opts.BrokerURL)
	opts.SetClientID(c.opts.ClientID)
	if c.opts.Username != "" {
		opts.SetUsername(c.opts.Username)
		opts.SetPassword(c.opts.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(c.opts.ConnectTimeout)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		c.logger.Warn("mqtt connection lost", ports.Err(err))
	})

	client := paho.NewClient(opts)
	if err := c.wait(ctx, client.Connect()); err != nil {
		return fmt.Errorf("connect %s: %w", c.opts.BrokerURL, err)
	}

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()
	return nil
}

// Subscribe registers the topic at QoS 0 on the current connection.
func (c *Channel) Subscribe(topic string) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil || !client.IsConnectionOpen() {
		return domain.ErrConnectivityLoss
	}
	if err := c.wait(context.Background(), client.Subscribe(topic, 0, c.onPublish)); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

// OnMessage registers the handler invoked by Poll.
func (c *Channel) OnMessage(h ports.MessageHandler) {
	c.handler = h
}

// Poll hands every queued message to the handler.
func (c *Channel) Poll() {
	for {
		select {
		case msg := <-c.inbox:
			if c.handler != nil {
				c.handler(msg.topic, msg.payload)
			}
		default:
			return
		}
	}
}

// Disconnect closes the connection and discards queued messages.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client != nil && client.IsConnected() {
		client.Disconnect(disconnectQuiesceMillis)
	}
	c.drain()
}

// onPublish runs on the paho goroutine. When the inbox is full the oldest
// message is dropped so the latest command survives.
func (c *Channel) onPublish(_ paho.Client, m paho.Message) {
	msg := message{topic: m.Topic(), payload: append([]byte(nil), m.Payload()...)}
	for {
		select {
		case c.inbox <- msg:
			return
		default:
		}
		select {
		case dropped := <-c.inbox:
			c.logger.Warn("mqtt inbox full, dropping message", ports.String("topic", dropped.topic))
		default:
		}
	}
}

func (c *Channel) drain() {
	for {
		select {
		case <-c.inbox:
		default:
			return
		}
	}
}

func (c *Channel) wait(ctx context.Context, token paho.Token) error {
	timer := time.NewTimer(c.opts.ConnectTimeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errTimeout
	}
}
