package config

import (
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	UploadURL        string `toml:"upload_url"`
	LogURL           string `toml:"log_url"`
	BrokerURL        string `toml:"broker_url"`
	BrokerUser       string `toml:"broker_user"`
	BrokerPassword   string `toml:"broker_password"`
	ClientID         string `toml:"client_id"`
	ControlTopic     string `toml:"control_topic"`
	MotionThreshold  *int   `toml:"motion_threshold"`
	InactivityWindow string `toml:"inactivity_window"`
	TickInterval     string `toml:"tick_interval"`
	ReconnectBackoff string `toml:"reconnect_backoff"`
	HTTPTimeout      string `toml:"http_timeout"`
	MetricsInterval  string `toml:"metrics_interval"`
	SleepSettle      string `toml:"sleep_settle"`
	ReportThroughput *bool  `toml:"report_throughput"`
	MotionLine       string `toml:"motion_line"`
	Camera           string `toml:"camera"`
	CaptureCommand   string `toml:"capture_command"`
	LogLevel         string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.pircam/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".pircam", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("upload-url", fc.UploadURL, &cfg.UploadURL)
	s.setString("log-url", fc.LogURL, &cfg.LogURL)
	s.setString("broker-url", fc.BrokerURL, &cfg.BrokerURL)
	s.setString("broker-user", fc.BrokerUser, &cfg.BrokerUser)
	s.setString("broker-password", fc.BrokerPassword, &cfg.BrokerPassword)
	s.setString("client-id", fc.ClientID, &cfg.ClientID)
	s.setString("control-topic", fc.ControlTopic, &cfg.ControlTopic)
	s.setString("motion-line", fc.MotionLine, &cfg.MotionLine)
	s.setString("camera", fc.Camera, &cfg.Camera)
	s.setString("capture-command", fc.CaptureCommand, &cfg.CaptureCommand)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("motion-threshold", fc.MotionThreshold, &cfg.MotionThreshold)

	durations := []struct {
		flag  string
		value string
		dst   *time.Duration
	}{
		{"inactivity-window", fc.InactivityWindow, &cfg.InactivityWindow},
		{"tick-interval", fc.TickInterval, &cfg.TickInterval},
		{"reconnect-backoff", fc.ReconnectBackoff, &cfg.ReconnectBackoff},
		{"http-timeout", fc.HTTPTimeout, &cfg.HTTPTimeout},
		{"metrics-interval", fc.MetricsInterval, &cfg.MetricsInterval},
		{"sleep-settle", fc.SleepSettle, &cfg.SleepSettle},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, d.value, d.dst); err != nil {
			return err
		}
	}

	s.setBool("report-throughput", fc.ReportThroughput, &cfg.ReportThroughput)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
