package pircam_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pirlabs/pircam"
	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

type scriptedChannel struct {
	connected  bool
	subscribed []string
	pending    [][]byte
	handler    ports.MessageHandler
}

func (c *scriptedChannel) Connected() bool { return c.connected }

func (c *scriptedChannel) Connect(context.Context) error {
	c.connected = true
	return nil
}

func (c *scriptedChannel) Subscribe(topic string) error {
	c.subscribed = append(c.subscribed, topic)
	return nil
}

func (c *scriptedChannel) OnMessage(h ports.MessageHandler) { c.handler = h }

func (c *scriptedChannel) Disconnect() { c.connected = false }

func (c *scriptedChannel) Poll() {
	for _, p := range c.pending {
		c.handler(pircam.DefaultConfig().ControlTopic, p)
	}
	c.pending = nil
}

type alwaysHigh struct{}

func (alwaysHigh) ReadLevel() (domain.Level, error) { return domain.LevelHigh, nil }

type modeLog struct {
	mu    sync.Mutex
	modes []pircam.Mode
}

func (l *modeLog) OnModeChange(_, current domain.DeviceMode, _ string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modes = append(l.modes, current)
}

func testConfig(uploadURL string) pircam.Config {
	cfg := pircam.DefaultConfig()
	cfg.UploadURL = uploadURL
	cfg.BrokerURL = "tcp://127.0.0.1:1883"
	cfg.Camera = "stub"
	cfg.TickInterval = time.Millisecond
	return cfg
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := pircam.DefaultConfig()
	if _, err := pircam.New(cfg); !errors.Is(err, pircam.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestNew_UnsupportedBrokerScheme(t *testing.T) {
	cfg := testConfig("http://collector.local/upload")
	cfg.BrokerURL = "amqp://broker.local"
	if _, err := pircam.New(cfg); !errors.Is(err, pircam.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestNew_BrokerSchemes(t *testing.T) {
	for _, broker := range []string{"tcp://b:1883", "mqtt://b:1883", "nats://b:4222"} {
		cfg := testConfig("http://collector.local/upload")
		cfg.BrokerURL = broker
		agent, err := pircam.New(cfg)
		if err != nil {
			t.Errorf("New(%s) error = %v", broker, err)
			continue
		}
		if agent.Session() == "" {
			t.Errorf("New(%s) produced an empty session", broker)
		}
	}
}

func TestAgent_StreamsFramesAfterStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var uploads atomic.Int32
	var session atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/upload" {
			session.Store(r.Header.Get("X-Pircam-Session"))
			if uploads.Add(1) == 3 {
				cancel()
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	channel := &scriptedChannel{pending: [][]byte{[]byte("1")}}
	modes := &modeLog{}

	cfg := testConfig(srv.URL + "/upload")
	cfg.LogURL = srv.URL + "/log"
	agent, err := pircam.New(cfg,
		pircam.WithCommandChannel(channel),
		pircam.WithMotionSensor(alwaysHigh{}),
		pircam.WithModeObserver(modes),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	timer := time.AfterFunc(5*time.Second, cancel)
	defer timer.Stop()

	if err := agent.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := uploads.Load(); got < 3 {
		t.Fatalf("uploads = %d, want at least 3", got)
	}
	if got, _ := session.Load().(string); got != agent.Session() {
		t.Errorf("session header = %q, want %q", got, agent.Session())
	}
	if len(channel.subscribed) == 0 || channel.subscribed[0] != "wakeup/espCamera" {
		t.Errorf("subscribed = %v", channel.subscribed)
	}
	if channel.connected {
		t.Error("channel still connected after Run returned")
	}

	modes.mu.Lock()
	defer modes.mu.Unlock()
	if len(modes.modes) == 0 || modes.modes[0] != pircam.ModeCapturing {
		t.Errorf("modes = %v, want Capturing first", modes.modes)
	}
}

func TestAgent_DeadlineIsCleanShutdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	channel := &scriptedChannel{pending: [][]byte{[]byte("1")}}
	agent, err := pircam.New(testConfig(srv.URL+"/upload"),
		pircam.WithCommandChannel(channel),
		pircam.WithMotionSensor(alwaysHigh{}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := agent.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v, want nil after deadline", err)
	}
	if channel.connected {
		t.Error("channel still connected after Run returned")
	}
}
