package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/pirlabs/pircam"
	logAdapter "github.com/pirlabs/pircam/internal/adapters/log"
	"github.com/pirlabs/pircam/internal/config"
)

const helpDescription = `
Watch a PIR motion line and stream camera frames to an HTTP collector while
motion lasts. Capture is switched on and off by publishing "1" or "0" to the
control topic (MQTT, or NATS for nats:// broker URLs). After a quiet period
the agent suspends until the next rising edge on the motion line.

Configuration is read from flags, PIRCAM_* environment variables, a .env file
in the working directory and $HOME/.pircam/config.toml, in that order.
`

var exampleUsage = strings.TrimSpace(`
  pircam --upload-url http://collector:8080/upload --broker-url tcp://broker:1883
  pircam --config /etc/pircam.toml --camera stub --log-level debug
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := config.DefaultConfig()
	var cfgPath string
	var envPath string

	log := logAdapter.NewConsole("info").Logger()

	root := &cobra.Command{
		Use:          "pircam",
		Short:        "Motion-triggered camera agent with pub/sub capture control",
		Long:         strings.TrimSpace(helpDescription),
		Example:      exampleUsage,
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = config.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && config.FileExists(cfgFile) {
				fc, err := config.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := config.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// .env only fills variables the environment does not already set
			if err := config.LoadDotEnv(envPath); err != nil {
				return fmt.Errorf("load %s: %w", envPath, err)
			}
			if err := config.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := logAdapter.NewConsole(cfg.LogLevel)
			log = logger.Logger()
			log.Info().Interface("config", cfg.Redacted()).Msg("configuration")

			agent, err := pircam.New(cfg, pircam.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("create agent: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return agent.Run(ctx)
		},
	}

	f := root.Flags()
	f.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.pircam/config.toml)")
	f.StringVar(&envPath, "env-file", ".env", "dotenv file with PIRCAM_* variables")

	f.StringVar(&cfg.UploadURL, "upload-url", cfg.UploadURL, "collector endpoint receiving JPEG frames")
	f.StringVar(&cfg.LogURL, "log-url", cfg.LogURL, "collector endpoint receiving diagnostic lines (optional)")

	f.StringVar(&cfg.BrokerURL, "broker-url", cfg.BrokerURL, "command broker URL (tcp://, ssl://, ws:// for MQTT; nats:// for NATS)")
	f.StringVar(&cfg.BrokerUser, "broker-user", cfg.BrokerUser, "broker username")
	f.StringVar(&cfg.BrokerPassword, "broker-password", cfg.BrokerPassword, "broker password")
	f.StringVar(&cfg.ClientID, "client-id", cfg.ClientID, "client ID prefix; a per-process session ID is appended")
	f.StringVar(&cfg.ControlTopic, "control-topic", cfg.ControlTopic, "topic carrying capture commands")

	f.IntVar(&cfg.MotionThreshold, "motion-threshold", cfg.MotionThreshold, "motion detections required before capturing")
	f.DurationVar(&cfg.InactivityWindow, "inactivity-window", cfg.InactivityWindow, "time without motion before sleeping")
	f.DurationVar(&cfg.TickInterval, "tick-interval", cfg.TickInterval, "control loop period")
	f.DurationVar(&cfg.ReconnectBackoff, "reconnect-backoff", cfg.ReconnectBackoff, "delay between broker connection attempts")
	f.DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "HTTP timeout for uploads and log events")
	f.DurationVar(&cfg.MetricsInterval, "metrics-interval", cfg.MetricsInterval, "throughput reporting window")
	f.BoolVar(&cfg.ReportThroughput, "report-throughput", cfg.ReportThroughput, "send FPS lines to the log endpoint")
	f.DurationVar(&cfg.SleepSettle, "sleep-settle", cfg.SleepSettle, "pause between the sleep announcement and suspension")

	f.StringVar(&cfg.MotionLine, "motion-line", cfg.MotionLine, "GPIO value file of the PIR sensor")
	f.StringVar(&cfg.Camera, "camera", cfg.Camera, "camera driver (exec|stub)")
	f.StringVar(&cfg.CaptureCommand, "capture-command", cfg.CaptureCommand, "command writing one JPEG to stdout (exec driver)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("pircam")
		os.Exit(1)
	}
}
