package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// fakeClock advances only when slept on.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeCamera records calls and serves scripted frames.
type fakeCamera struct {
	activateErr   error
	active        bool
	activations   int
	deactivations int
	acquires      int
	frames        [][]byte
	events        *[]string
}

func (c *fakeCamera) Activate() error {
	c.activations++
	c.record("activate")
	if c.activateErr != nil {
		return c.activateErr
	}
	c.active = true
	return nil
}

func (c *fakeCamera) Deactivate() error {
	c.deactivations++
	c.record("deactivate")
	c.active = false
	return nil
}

func (c *fakeCamera) Acquire() (domain.Frame, bool) {
	c.acquires++
	c.record("acquire")
	if len(c.frames) == 0 {
		return domain.Frame{}, false
	}
	f := c.frames[0]
	c.frames = c.frames[1:]
	return domain.Frame{Data: f}, true
}

func (c *fakeCamera) record(ev string) {
	if c.events != nil {
		*c.events = append(*c.events, ev)
	}
}

// fakeUplink records uploads and log events.
type fakeUplink struct {
	uploadErr error
	uploads   [][]byte
	types     []string
	logs      []string
}

func (u *fakeUplink) Upload(ctx context.Context, data []byte, contentType string) error {
	if u.uploadErr != nil {
		return u.uploadErr
	}
	u.uploads = append(u.uploads, data)
	u.types = append(u.types, contentType)
	return nil
}

func (u *fakeUplink) LogEvent(ctx context.Context, message string) error {
	u.logs = append(u.logs, message)
	return nil
}

type inbound struct {
	topic   string
	payload []byte
}

// fakeChannel buffers pushed messages until Poll.
type fakeChannel struct {
	connected   bool
	connectErrs []error
	connects    int
	disconnects int
	subscribed  []string
	handler     ports.MessageHandler
	pending     []inbound
}

func (c *fakeChannel) Connected() bool { return c.connected }

func (c *fakeChannel) Connect(ctx context.Context) error {
	c.connects++
	if len(c.connectErrs) > 0 {
		err := c.connectErrs[0]
		c.connectErrs = c.connectErrs[1:]
		if err != nil {
			return err
		}
	}
	c.connected = true
	return nil
}

func (c *fakeChannel) Subscribe(topic string) error {
	if !c.connected {
		return domain.ErrConnectivityLoss
	}
	c.subscribed = append(c.subscribed, topic)
	return nil
}

func (c *fakeChannel) OnMessage(h ports.MessageHandler) { c.handler = h }

func (c *fakeChannel) Poll() {
	msgs := c.pending
	c.pending = nil
	for _, m := range msgs {
		c.handler(m.topic, m.payload)
	}
}

func (c *fakeChannel) Disconnect() {
	c.disconnects++
	c.connected = false
}

func (c *fakeChannel) push(topic, payload string) {
	c.pending = append(c.pending, inbound{topic: topic, payload: []byte(payload)})
}

// fakeSensor returns scripted levels, then low.
type fakeSensor struct {
	levels []domain.Level
	err    error
}

func (s *fakeSensor) ReadLevel() (domain.Level, error) {
	if s.err != nil {
		return domain.LevelLow, s.err
	}
	if len(s.levels) == 0 {
		return domain.LevelLow, nil
	}
	l := s.levels[0]
	s.levels = s.levels[1:]
	return l, nil
}

func (s *fakeSensor) queue(levels ...domain.Level) {
	s.levels = append(s.levels, levels...)
}

// fakeWake returns immediately from low power, as if motion woke the device.
type fakeWake struct {
	cause   domain.WakeCause
	armErr  error
	armed   int
	sleeps  int
	onSleep func()
}

func (w *fakeWake) WakeCause() domain.WakeCause { return w.cause }

func (w *fakeWake) ArmWakeOnRisingEdge() error {
	if w.armErr != nil {
		return w.armErr
	}
	w.armed++
	return nil
}

func (w *fakeWake) EnterLowPower(ctx context.Context) error {
	w.sleeps++
	if w.onSleep != nil {
		w.onSleep()
	}
	w.cause = domain.WakeCauseMotion
	return ctx.Err()
}

// recordingObserver tracks mode changes.
type recordingObserver struct {
	mu     sync.Mutex
	events []modeChange
}

type modeChange struct {
	previous domain.DeviceMode
	current  domain.DeviceMode
	reason   string
}

func (o *recordingObserver) OnModeChange(previous, current domain.DeviceMode, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, modeChange{previous, current, reason})
}

func (o *recordingObserver) Events() []modeChange {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]modeChange{}, o.events...)
}

var errBoom = errors.New("boom")
