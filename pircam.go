// Package pircam runs a battery-powered, motion-triggered camera agent.
//
// The agent watches a PIR motion line and streams JPEG frames to an HTTP
// collector while motion persists and capture is enabled over a pub/sub
// control topic ("1" enables, "0" disables). After a quiet period it
// suspends until the next rising edge on the motion line.
//
// Example usage:
//
//	cfg := pircam.DefaultConfig()
//	cfg.UploadURL = "http://collector.local/upload"
//	cfg.BrokerURL = "tcp://broker.local:1883"
//	agent, err := pircam.New(cfg, pircam.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := agent.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package pircam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/pirlabs/pircam/internal/adapters/camera"
	"github.com/pirlabs/pircam/internal/adapters/gpio"
	httpAdapter "github.com/pirlabs/pircam/internal/adapters/http"
	"github.com/pirlabs/pircam/internal/adapters/mqtt"
	"github.com/pirlabs/pircam/internal/adapters/nats"
	"github.com/pirlabs/pircam/internal/app"
	"github.com/pirlabs/pircam/internal/config"
	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

// Config holds the agent configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = config.Config

// Mode is the device operating mode.
type Mode = domain.DeviceMode

const (
	ModeIdle      = domain.ModeIdle
	ModeCapturing = domain.ModeCapturing
	ModeSleeping  = domain.ModeSleeping
)

// Errors returned by the agent. Check them with errors.Is.
var (
	ErrInvalidConfig = domain.ErrInvalidConfig
	ErrHardwareInit  = domain.ErrHardwareInit
)

// DefaultConfig returns a Config with sensible default values.
// At minimum, UploadURL and BrokerURL must be set before calling New.
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// Agent wires the device state machine to its hardware and network adapters.
type Agent struct {
	config  Config
	session string
	device  *app.Device
	channel ports.CommandChannel
	logger  ports.Logger
}

// New validates cfg and builds an agent. Adapters not supplied through
// options are derived from the configuration.
func New(cfg Config, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions(&http.Client{Timeout: cfg.HTTPTimeout})
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	session := uuid.NewString()

	line := gpio.NewLine(cfg.MotionLine)
	if o.motion == nil {
		o.motion = line
	}
	if o.wake == nil {
		o.wake = gpio.NewEdgeWaker(line, gpio.DefaultPollInterval, logger)
	}
	if o.camera == nil {
		cam, err := newCamera(cfg, logger)
		if err != nil {
			return nil, err
		}
		o.camera = cam
	}
	if o.channel == nil {
		ch, err := newChannel(cfg, session, logger)
		if err != nil {
			return nil, err
		}
		o.channel = ch
	}

	uplink := httpAdapter.NewUplink(o.httpClient, logger, cfg.UploadURL, cfg.LogURL, session)

	device := app.NewDevice(cfg.DeviceConfig(), app.Collaborators{
		Camera:  o.camera,
		Uplink:  uplink,
		Channel: o.channel,
		Motion:  o.motion,
		Wake:    o.wake,
		Clock:   o.clock,
	}, logger, o.observer)

	return &Agent{
		config:  cfg,
		session: session,
		device:  device,
		channel: o.channel,
		logger:  logger,
	}, nil
}

// Run boots the device and runs the control loop until ctx is done.
// Cancellation or an expired deadline is a clean shutdown and yields nil. After a sensor
// fault the agent parks until cancellation and returns an error wrapping
// ErrHardwareInit.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("pircam starting",
		ports.String("session", a.session),
		ports.String("topic", a.config.ControlTopic),
		ports.String("upload_url", a.config.UploadURL),
	)
	defer a.channel.Disconnect()

	err := a.device.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		a.logger.Info("pircam stopped")
		return nil
	}
	return err
}

// Session returns the identifier generated for this process.
func (a *Agent) Session() string {
	return a.session
}

// Mode returns the current device mode. It is only meaningful when called
// from a ModeObserver or after Run returns.
func (a *Agent) Mode() Mode {
	return a.device.Mode()
}

func newCamera(cfg Config, logger ports.Logger) (ports.Camera, error) {
	switch cfg.Camera {
	case config.CameraStub:
		return camera.NewStub(), nil
	default:
		driver, err := camera.NewExecDriver(cfg.CaptureCommand, camera.DefaultCaptureTimeout, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
		return driver, nil
	}
}

// newChannel picks the command channel transport from the broker URL scheme.
func newChannel(cfg Config, session string, logger ports.Logger) (ports.CommandChannel, error) {
	u, err := url.Parse(cfg.BrokerURL)
	if err != nil {
		return nil, fmt.Errorf("%w: broker-url: %v", domain.ErrInvalidConfig, err)
	}
	clientID := cfg.ClientID + "-" + session

	switch u.Scheme {
	case "nats", "tls":
		return nats.NewChannel(nats.Options{
			URL:      cfg.BrokerURL,
			Name:     clientID,
			Username: cfg.BrokerUser,
			Password: cfg.BrokerPassword,
		}, logger), nil
	case "tcp", "mqtt", "ssl", "mqtts", "ws", "wss":
		return mqtt.NewChannel(mqtt.Options{
			BrokerURL: cfg.BrokerURL,
			ClientID:  clientID,
			Username:  cfg.BrokerUser,
			Password:  cfg.BrokerPassword,
		}, logger), nil
	default:
		return nil, fmt.Errorf("%w: unsupported broker scheme %q", domain.ErrInvalidConfig, u.Scheme)
	}
}
