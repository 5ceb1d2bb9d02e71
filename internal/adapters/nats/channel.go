// Package nats implements the command channel on a NATS server.
// The control topic is used verbatim as the subject.
package nats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultInboxSize      = 32
)

// Options configures a Channel.
type Options struct {
	URL            string
	Name           string
	Username       string
	Password       string
	ConnectTimeout time.Duration
	InboxSize      int
}

// Channel implements ports.CommandChannel on a NATS connection.
// Subscriptions feed a buffered Go channel that Poll drains.
type Channel struct {
	opts    Options
	logger  ports.Logger
	handler ports.MessageHandler

	mu    sync.Mutex
	conn  *nats.Conn
	inbox chan *nats.Msg
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
		inbox:  make(chan *nats.Msg, opts.InboxSize),
	}
}

// Connected reports whether the NATS connection is up.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && c.conn.IsConnected()
}

// Connect dials the server. Reconnects are left to the caller.
func (c *Channel) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	nc, err := nats.Connect(c.opts.URL,
		nats.Name(c.opts.Name),
		nats.UserInfo(c.opts.Username, c.opts.Password),
		nats.Timeout(c.opts.ConnectTimeout),
		nats.NoReconnect(),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				c.logger.Warn("nats connection lost", ports.Err(err))
			}
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			c.logger.Warn("nats async error", ports.String("subject", subject), ports.Err(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.opts.URL, err)
	}

	c.mu.Lock()
	c.conn = nc
	c.mu.Unlock()
	return nil
}

// Subscribe routes the subject into the inbox.
func (c *Channel) Subscribe(topic string) error {
	c.mu.Lock()
	nc := c.conn
	c.mu.Unlock()

	if nc == nil || !nc.IsConnected() {
		return domain.ErrConnectivityLoss
	}
	if _, err := nc.ChanSubscribe(topic, c.inbox); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	if err := nc.Flush(); err != nil {
		return fmt.Errorf("flush subscription %s: %w", topic, err)
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
				c.handler(msg.Subject, msg.Data)
			}
		default:
			return
		}
	}
}

// Disconnect closes the connection and discards queued messages.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	nc := c.conn
	c.conn = nil
	c.mu.Unlock()

	if nc != nil {
		nc.Close()
	}
	for {
		select {
		case <-c.inbox:
		default:
			return
		}
	}
}
