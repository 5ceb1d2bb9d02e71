// Package config holds the pircam CLI configuration and its sources:
// flags, environment, .env files and a TOML file.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pirlabs/pircam/internal/app"
	"github.com/pirlabs/pircam/internal/domain"
)

// Camera driver names.
const (
	CameraExec = "exec"
	CameraStub = "stub"
)

const (
	DefaultClientID       = "pircam"
	DefaultMotionLine     = "/sys/class/gpio/gpio4/value"
	DefaultCaptureCommand = "libcamera-jpeg -n -t 1 --width 800 --height 600 -o -"
	DefaultHTTPTimeout    = 10 * time.Second

	DefaultControlTopic     = app.DefaultControlTopic
	DefaultMotionThreshold  = app.DefaultMotionThreshold
	DefaultInactivityWindow = app.DefaultInactivityWindow
	DefaultTickInterval     = app.DefaultTickInterval
	DefaultReconnectBackoff = app.DefaultReconnectBackoff
	DefaultMetricsInterval  = app.DefaultMetricsInterval
	DefaultSleepSettle      = app.DefaultSleepSettle
)

// Config holds CLI configuration for pircam.
type Config struct {
	UploadURL string
	LogURL    string

	BrokerURL      string
	BrokerUser     string
	BrokerPassword string
	ClientID       string
	ControlTopic   string

	MotionThreshold  int
	InactivityWindow time.Duration
	TickInterval     time.Duration
	ReconnectBackoff time.Duration
	HTTPTimeout      time.Duration
	MetricsInterval  time.Duration
	SleepSettle      time.Duration
	ReportThroughput bool

	MotionLine     string
	Camera         string
	CaptureCommand string

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ClientID:         DefaultClientID,
		ControlTopic:     DefaultControlTopic,
		MotionThreshold:  DefaultMotionThreshold,
		InactivityWindow: DefaultInactivityWindow,
		TickInterval:     DefaultTickInterval,
		ReconnectBackoff: DefaultReconnectBackoff,
		HTTPTimeout:      DefaultHTTPTimeout,
		MetricsInterval:  DefaultMetricsInterval,
		SleepSettle:      DefaultSleepSettle,
		MotionLine:       DefaultMotionLine,
		Camera:           CameraExec,
		CaptureCommand:   DefaultCaptureCommand,
		LogLevel:         "info",
	}
}

// Validate checks the configuration for errors and normalizes URLs.
// Every returned error matches domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.UploadURL == "" {
		return invalid("upload-url is required")
	}
	c.UploadURL = strings.TrimRight(c.UploadURL, "/")
	c.LogURL = strings.TrimRight(c.LogURL, "/")

	if c.BrokerURL == "" {
		return invalid("broker-url is required")
	}
	if strings.TrimSpace(c.ControlTopic) == "" {
		return invalid("control-topic must not be empty")
	}
	if c.ClientID == "" {
		c.ClientID = DefaultClientID
	}

	if c.MotionThreshold <= 0 {
		return invalid("motion-threshold must be positive")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"inactivity-window", c.InactivityWindow},
		{"tick-interval", c.TickInterval},
		{"reconnect-backoff", c.ReconnectBackoff},
		{"http-timeout", c.HTTPTimeout},
		{"metrics-interval", c.MetricsInterval},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return invalid(d.name + " must be positive")
		}
	}
	if c.SleepSettle < 0 {
		return invalid("sleep-settle must not be negative")
	}

	switch c.Camera {
	case CameraExec:
		if strings.TrimSpace(c.CaptureCommand) == "" {
			return invalid("capture-command is required for the exec camera")
		}
	case CameraStub:
	default:
		return invalid(fmt.Sprintf("unknown camera driver %q", c.Camera))
	}

	return nil
}

// DeviceConfig returns the control loop settings.
func (c Config) DeviceConfig() app.DeviceConfig {
	return app.DeviceConfig{
		ControlTopic:     c.ControlTopic,
		MotionThreshold:  c.MotionThreshold,
		InactivityWindow: c.InactivityWindow,
		TickInterval:     c.TickInterval,
		ReconnectBackoff: c.ReconnectBackoff,
		MetricsInterval:  c.MetricsInterval,
		SleepSettle:      c.SleepSettle,
		ReportThroughput: c.ReportThroughput,
	}
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.BrokerPassword != "" {
		c.BrokerPassword = "***"
	}
	return c
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, msg)
}

// configSetter applies values from lower-precedence sources.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value from a pointer if not nil and flag not changed.
// Zero and negative values are applied so Validate can reject them.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int for environment variables.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a bool in any form strconv.ParseBool accepts.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
