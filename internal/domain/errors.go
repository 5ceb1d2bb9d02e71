package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the pircam domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrTransientIO marks upload and log failures. They are recorded and the
	// tick continues; the payload is never retried.
	ErrTransientIO = errors.New("pircam: transient io failure")

	// ErrConnectivityLoss is returned by command channels that are not connected.
	ErrConnectivityLoss = errors.New("pircam: command channel disconnected")

	// ErrHardwareInit is returned when the image sensor fails to activate.
	// The device halts instead of running with a dead sensor.
	ErrHardwareInit = errors.New("pircam: image sensor failed to activate")

	// ErrMalformedCommand is returned by ParseCommand for unrecognized payloads.
	ErrMalformedCommand = errors.New("pircam: malformed command")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("pircam: invalid configuration")

	// ErrInvalidTransition is returned when a mode change is not allowed.
	ErrInvalidTransition = errors.New("pircam: invalid mode transition")
)

// IOError describes a failed upload or log delivery.
// StatusCode is the collector's HTTP status, or 0 when no response arrived.
type IOError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *IOError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports every IOError as ErrTransientIO.
func (e *IOError) Is(target error) bool { return target == ErrTransientIO }
