package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable pircam reads.
const EnvPrefix = "PIRCAM_"

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Variables that are already set are never overridden, and
// missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnvConfig applies configuration from environment variables (PIRCAM_*).
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	s.setString("upload-url", env("UPLOAD_URL"), &cfg.UploadURL)
	s.setString("log-url", env("LOG_URL"), &cfg.LogURL)
	s.setString("broker-url", env("BROKER_URL"), &cfg.BrokerURL)
	s.setString("broker-user", env("BROKER_USER"), &cfg.BrokerUser)
	s.setString("broker-password", env("BROKER_PASSWORD"), &cfg.BrokerPassword)
	s.setString("client-id", env("CLIENT_ID"), &cfg.ClientID)
	s.setString("control-topic", env("CONTROL_TOPIC"), &cfg.ControlTopic)
	s.setString("motion-line", env("MOTION_LINE"), &cfg.MotionLine)
	s.setString("camera", env("CAMERA"), &cfg.Camera)
	s.setString("capture-command", env("CAPTURE_COMMAND"), &cfg.CaptureCommand)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("motion-threshold", env("MOTION_THRESHOLD"), &cfg.MotionThreshold); err != nil {
		return err
	}

	if err := s.setDuration("inactivity-window", env("INACTIVITY_WINDOW"), &cfg.InactivityWindow); err != nil {
		return err
	}
	if err := s.setDuration("tick-interval", env("TICK_INTERVAL"), &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("reconnect-backoff", env("RECONNECT_BACKOFF"), &cfg.ReconnectBackoff); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", env("HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("metrics-interval", env("METRICS_INTERVAL"), &cfg.MetricsInterval); err != nil {
		return err
	}
	if err := s.setDuration("sleep-settle", env("SLEEP_SETTLE"), &cfg.SleepSettle); err != nil {
		return err
	}

	return s.setBoolFromString("report-throughput", env("REPORT_THROUGHPUT"), &cfg.ReportThroughput)
}
