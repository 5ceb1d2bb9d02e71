package pircam

import (
	"net/http"

	logAdapter "github.com/pirlabs/pircam/internal/adapters/log"
	"github.com/pirlabs/pircam/internal/app"
	"github.com/pirlabs/pircam/internal/ports"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// Hardware and transport capabilities that can replace the defaults.
type (
	Camera         = ports.Camera
	MotionSensor   = ports.MotionSensor
	WakeSource     = ports.WakeSource
	CommandChannel = ports.CommandChannel
	Clock          = ports.Clock
	ModeObserver   = app.ModeObserver
)

// Option configures optional behavior of an Agent.
type Option func(*options)

type options struct {
	httpClient ports.HTTPClient
	logger     ports.Logger
	camera     ports.Camera
	motion     ports.MotionSensor
	wake       ports.WakeSource
	channel    ports.CommandChannel
	clock      ports.Clock
	observer   app.ModeObserver
}

func defaultOptions(client *http.Client) options {
	return options{
		httpClient: client,
		logger:     logAdapter.NewNoopLogger(),
	}
}

// WithHTTPClient sets a custom HTTP client for uploads and log events.
// If not provided, a default client with the configured timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCamera replaces the camera selected by Config.Camera.
func WithCamera(c Camera) Option {
	return func(o *options) {
		o.camera = c
	}
}

// WithMotionSensor replaces the GPIO motion line.
func WithMotionSensor(s MotionSensor) Option {
	return func(o *options) {
		o.motion = s
	}
}

// WithWakeSource replaces the GPIO edge waker.
func WithWakeSource(w WakeSource) Option {
	return func(o *options) {
		o.wake = w
	}
}

// WithCommandChannel replaces the channel derived from Config.BrokerURL.
func WithCommandChannel(c CommandChannel) Option {
	return func(o *options) {
		o.channel = c
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithModeObserver registers a callback for every mode change.
// It runs synchronously on the control loop.
func WithModeObserver(obs ModeObserver) Option {
	return func(o *options) {
		o.observer = obs
	}
}
