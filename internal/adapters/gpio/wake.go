package gpio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

// DefaultPollInterval is how often the line is sampled while suspended.
// sysfs value files do not always raise inotify events, so polling backs up
// the watcher.
const DefaultPollInterval = 20 * time.Millisecond

// ErrNotArmed is returned by EnterLowPower when no wake edge was armed.
var ErrNotArmed = errors.New("gpio: wake source not armed")

// EdgeWaker suspends the caller until a low-to-high transition is seen on a
// line. The first cycle after construction reports a power-on wake.
type EdgeWaker struct {
	line         *Line
	pollInterval time.Duration
	logger       ports.Logger

	mu    sync.Mutex
	cause domain.WakeCause
	armed bool
	last  domain.Level
}

// NewEdgeWaker creates a wake source on line.
func NewEdgeWaker(line *Line, pollInterval time.Duration, logger ports.Logger) *EdgeWaker {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &EdgeWaker{
		line:         line,
		pollInterval: pollInterval,
		logger:       logger,
		cause:        domain.WakeCausePowerOn,
	}
}

// WakeCause reports why the current cycle started.
func (w *EdgeWaker) WakeCause() domain.WakeCause {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cause
}

// ArmWakeOnRisingEdge samples the line so that the next low-to-high
// transition ends EnterLowPower.
func (w *EdgeWaker) ArmWakeOnRisingEdge() error {
	level, err := w.line.ReadLevel()
	if err != nil {
		return fmt.Errorf("arm wake: %w", err)
	}

	w.mu.Lock()
	w.armed = true
	w.last = level
	w.mu.Unlock()
	return nil
}

// EnterLowPower blocks until the armed edge fires or ctx is canceled.
func (w *EdgeWaker) EnterLowPower(ctx context.Context) error {
	w.mu.Lock()
	armed := w.armed
	w.mu.Unlock()
	if !armed {
		return ErrNotArmed
	}

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add(w.line.Path()); err != nil {
			w.logger.Debug("gpio watch unavailable, polling only", ports.Err(err))
		} else {
			events = watcher.Events
			watchErrs = watcher.Errors
		}
	} else {
		w.logger.Debug("fsnotify unavailable, polling only", ports.Err(err))
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			w.logger.Debug("gpio watch error", ports.Err(err))
			continue

		case <-ticker.C:
		}

		if w.sample() {
			return nil
		}
	}
}

// sample reads the line and reports whether a rising edge occurred.
func (w *EdgeWaker) sample() bool {
	level, err := w.line.ReadLevel()
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	rising := w.last == domain.LevelLow && level == domain.LevelHigh
	w.last = level
	if !rising {
		return false
	}
	w.armed = false
	w.cause = domain.WakeCauseMotion
	return true
}
