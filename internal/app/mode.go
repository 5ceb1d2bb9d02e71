package app

import (
	"fmt"

	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

// ModeObserver is called after every mode change.
type ModeObserver interface {
	OnModeChange(previous, current domain.DeviceMode, reason string)
}

// modeMachine holds the current DeviceMode and enforces the transition table:
//
//	Idle      -> Capturing | Sleeping
//	Capturing -> Idle
//	Sleeping  -> Idle
//
// Side effects (sensor activation, suspension) belong to the caller.
type modeMachine struct {
	mode     domain.DeviceMode
	logger   ports.Logger
	observer ModeObserver
}

func newModeMachine(logger ports.Logger, observer ModeObserver) *modeMachine {
	return &modeMachine{
		mode:     domain.ModeIdle,
		logger:   logger,
		observer: observer,
	}
}

// Mode returns the current mode.
func (m *modeMachine) Mode() domain.DeviceMode {
	return m.mode
}

// TransitionTo moves to next. It returns ErrInvalidTransition and leaves the
// mode untouched when the move is not in the table.
func (m *modeMachine) TransitionTo(next domain.DeviceMode, reason string) error {
	prev := m.mode

	valid := false
	switch prev {
	case domain.ModeIdle:
		valid = next == domain.ModeCapturing || next == domain.ModeSleeping
	case domain.ModeCapturing:
		valid = next == domain.ModeIdle
	case domain.ModeSleeping:
		valid = next == domain.ModeIdle
	}
	if !valid {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, prev, next)
	}

	m.mode = next

	if m.observer != nil {
		m.observer.OnModeChange(prev, next, reason)
	}

	m.logger.Info("mode transition",
		ports.String("from", prev.String()),
		ports.String("to", next.String()),
		ports.String("reason", reason),
	)

	return nil
}
