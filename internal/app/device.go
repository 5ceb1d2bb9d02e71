package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

// DefaultSleepSettle is the pause between announcing sleep and suspending.
const DefaultSleepSettle = 100 * time.Millisecond

// DeviceConfig contains configuration for the control loop.
type DeviceConfig struct {
	ControlTopic     string
	MotionThreshold  int
	InactivityWindow time.Duration
	TickInterval     time.Duration
	ReconnectBackoff time.Duration
	MetricsInterval  time.Duration
	SleepSettle      time.Duration
	ReportThroughput bool
}

// DefaultDeviceConfig returns a DeviceConfig with default values.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		ControlTopic:     DefaultControlTopic,
		MotionThreshold:  DefaultMotionThreshold,
		InactivityWindow: DefaultInactivityWindow,
		TickInterval:     DefaultTickInterval,
		ReconnectBackoff: DefaultReconnectBackoff,
		MetricsInterval:  DefaultMetricsInterval,
		SleepSettle:      DefaultSleepSettle,
	}
}

// Collaborators groups the capabilities the Device consumes.
type Collaborators struct {
	Camera  ports.Camera
	Uplink  ports.Uplink
	Channel ports.CommandChannel
	Motion  ports.MotionSensor
	Wake    ports.WakeSource
	Clock   ports.Clock
}

// Device is the top-level state machine. It owns all device state and runs
// the cooperative control loop; there are no background goroutines.
type Device struct {
	config  DeviceConfig
	uplink  ports.Uplink
	channel ports.CommandChannel
	motion  ports.MotionSensor
	wake    ports.WakeSource
	clock   ports.Clock
	logger  ports.Logger

	modes    *modeMachine
	sensor   *sensorHandle
	evidence domain.MotionEvidence
	commands domain.CommandState
	metrics  domain.FrameMetrics

	power       *PowerController
	interpreter *CommandInterpreter
	coordinator *Coordinator
	reconnect   *backoff

	// fatal is set when the sensor fails to activate; the next check halts.
	fatal error
}

// NewDevice creates a device in Idle with the given collaborators.
func NewDevice(config DeviceConfig, c Collaborators, logger ports.Logger, observer ModeObserver) *Device {
	clock := c.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	d := &Device{
		config:    config,
		uplink:    c.Uplink,
		channel:   c.Channel,
		motion:    c.Motion,
		wake:      c.Wake,
		clock:     clock,
		logger:    logger,
		modes:     newModeMachine(logger, observer),
		sensor:    &sensorHandle{camera: c.Camera},
		reconnect: newBackoff(config.ReconnectBackoff),
	}
	d.metrics = domain.NewFrameMetrics(config.MetricsInterval, clock.Now())
	d.power = NewPowerController(config.MotionThreshold, config.InactivityWindow, &d.evidence, &d.commands)
	d.interpreter = NewCommandInterpreter(config.ControlTopic, &d.commands, d.power, d, clock, logger)
	d.coordinator = NewCoordinator(d.sensor, c.Uplink, &d.metrics, clock, logger, config.ReportThroughput)
	d.channel.OnMessage(d.interpreter.OnMessage)
	return d
}

// Mode returns the current mode.
func (d *Device) Mode() domain.DeviceMode { return d.modes.Mode() }

// Evidence returns a copy of the current motion evidence.
func (d *Device) Evidence() domain.MotionEvidence { return d.evidence }

// CommandState returns a copy of the current command state.
func (d *Device) CommandState() domain.CommandState { return d.commands }

// Metrics returns a copy of the current metrics window.
func (d *Device) Metrics() domain.FrameMetrics { return d.metrics }

// Run boots the device and executes ticks until ctx is canceled.
// It also returns, after ctx is canceled, when the device halted on a
// hardware fault; that error wraps domain.ErrHardwareInit.
func (d *Device) Run(ctx context.Context) error {
	d.Boot(ctx)

	for {
		if err := d.Tick(ctx); err != nil {
			return err
		}
		if err := d.clock.Sleep(ctx, d.config.TickInterval); err != nil {
			return err
		}
	}
}

// Boot reinitializes volatile state as after power-on or wake and announces
// the wake cause.
func (d *Device) Boot(ctx context.Context) {
	now := d.clock.Now()
	d.commands = domain.CommandState{}
	d.metrics = domain.NewFrameMetrics(d.config.MetricsInterval, now)
	d.power.Boot(now)
	d.fatal = nil

	cause := domain.WakeCausePowerOn
	if d.wake != nil {
		cause = d.wake.WakeCause()
	}
	d.logger.Info("device awake",
		ports.String("wake_cause", cause.String()),
		ports.String("mode", d.Mode().String()),
	)
	d.announce(ctx, "Wakeup caused by "+cause.String())
}

// Tick runs one iteration: connectivity, commands, motion, capture/upload,
// sleep check. The steps never interleave.
func (d *Device) Tick(ctx context.Context) error {
	if err := d.ensureConnected(ctx); err != nil {
		return err
	}

	d.channel.Poll()
	if d.fatal != nil {
		return d.halt(ctx)
	}

	d.sampleMotion()
	if d.fatal != nil {
		return d.halt(ctx)
	}

	d.coordinator.RunTick(ctx, d.Mode())

	if d.power.ShouldSleep(d.clock.Now()) {
		return d.sleep(ctx)
	}
	return nil
}

// ensureConnected blocks until the command channel is connected and
// subscribed. Attempts are unbounded and spaced by the reconnect backoff.
func (d *Device) ensureConnected(ctx context.Context) error {
	for !d.channel.Connected() {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := d.channel.Connect(ctx)
		if err == nil {
			// a fresh connection has no subscriptions
			err = d.channel.Subscribe(d.interpreter.Topic())
			if err != nil {
				d.channel.Disconnect()
			}
		}
		if err == nil {
			d.logger.Info("command channel connected",
				ports.String("topic", d.interpreter.Topic()),
				ports.Int("attempts", d.reconnect.Attempts()+1),
			)
			d.reconnect.Reset()
			return nil
		}

		d.logger.Warn("command channel connect failed",
			ports.Err(err),
			ports.Duration("retry_in", d.reconnect.Current()),
		)
		if err := d.reconnect.Sleep(ctx, d.clock); err != nil {
			return err
		}
	}
	return nil
}

// sampleMotion reads the motion line and arms capture when the evidence and
// the command flag allow it. Read errors count as low.
func (d *Device) sampleMotion() {
	level, err := d.motion.ReadLevel()
	if err != nil {
		d.logger.Warn("motion sensor read failed", ports.Err(err))
		level = domain.LevelLow
	}

	if level == domain.LevelHigh {
		d.power.RecordMotion(d.clock.Now())
		d.logger.Debug("motion detected", ports.Int("count", d.evidence.Count))
	}

	if d.Mode() == domain.ModeIdle && d.power.ShouldEnterCapturing() {
		if err := d.requestMode(domain.ModeCapturing, "motion"); err != nil {
			d.logger.Error("failed to enter capturing", ports.Err(err))
		}
	}
}

// requestMode applies a mode change with its sensor side effects.
// Requesting Idle while Idle still deactivates the sensor.
func (d *Device) requestMode(mode domain.DeviceMode, reason string) error {
	cur := d.Mode()
	if mode == cur {
		if mode == domain.ModeIdle {
			d.deactivateSensor()
		}
		return nil
	}

	switch mode {
	case domain.ModeCapturing:
		if err := d.sensor.Activate(); err != nil {
			d.fatal = fmt.Errorf("%w: %v", domain.ErrHardwareInit, err)
			return d.fatal
		}
	case domain.ModeIdle:
		d.deactivateSensor()
	case domain.ModeSleeping:
		return fmt.Errorf("%w: sleeping is entered by the inactivity check only", domain.ErrInvalidTransition)
	}

	return d.modes.TransitionTo(mode, reason)
}

func (d *Device) deactivateSensor() {
	if err := d.sensor.Deactivate(); err != nil {
		d.logger.Warn("failed to deactivate sensor", ports.Err(err))
	}
}

// sleep is the terminal transition of a wake cycle. All in-process state is
// discarded across it; control comes back as a fresh Idle boot. When the wake
// source cannot be armed the device never enters Sleeping: it stays Idle with
// the capture flag intact and starts a new inactivity window.
func (d *Device) sleep(ctx context.Context) error {
	if d.Mode() == domain.ModeCapturing {
		if err := d.requestMode(domain.ModeIdle, "inactivity"); err != nil {
			return err
		}
	}
	d.deactivateSensor()

	if d.wake == nil {
		d.logger.Warn("no wake source configured, staying awake")
		d.stayAwake()
		return nil
	}
	if err := d.wake.ArmWakeOnRisingEdge(); err != nil {
		d.logger.Error("failed to arm wake source, staying awake", ports.Err(err))
		d.stayAwake()
		return nil
	}

	d.power.Clear()
	if err := d.modes.TransitionTo(domain.ModeSleeping, "inactivity"); err != nil {
		return err
	}

	msg := fmt.Sprintf("No motion detected for %s, going to sleep", d.config.InactivityWindow)
	d.logger.Info("entering low power", ports.Duration("inactivity_window", d.config.InactivityWindow))
	d.announce(ctx, msg)
	if err := d.clock.Sleep(ctx, d.config.SleepSettle); err != nil {
		return err
	}

	// the radio is down while suspended
	d.channel.Disconnect()

	if err := d.wake.EnterLowPower(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		d.logger.Error("low power entry failed", ports.Err(err))
	}

	if err := d.modes.TransitionTo(domain.ModeIdle, "wake"); err != nil {
		return err
	}
	d.Boot(ctx)
	return nil
}

// stayAwake restarts the inactivity window without touching the command
// state. Stale evidence is dropped so only new motion resumes capture.
func (d *Device) stayAwake() {
	d.power.Boot(d.clock.Now())
}

// halt parks the device after a hardware fault until ctx is canceled.
func (d *Device) halt(ctx context.Context) error {
	d.logger.Error("image sensor failed, halting", ports.Err(d.fatal))
	d.announce(ctx, "Camera initialization failed")
	<-ctx.Done()
	return d.fatal
}

// announce sends a best-effort diagnostic to the collector.
func (d *Device) announce(ctx context.Context, msg string) {
	if err := d.uplink.LogEvent(ctx, msg); err != nil {
		d.logger.Debug("log event failed", ports.Err(err))
	}
}
