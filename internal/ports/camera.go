package ports

import "github.com/pirlabs/pircam/internal/domain"

// Camera owns the image sensor.
// Activate and Deactivate may be called for a state the sensor is already in;
// implementations must treat such calls as no-ops.
type Camera interface {
	// Activate powers up and initializes the sensor.
	Activate() error

	// Deactivate releases the sensor.
	Deactivate() error

	// Acquire grabs one frame. It returns false when no frame is available.
	Acquire() (domain.Frame, bool)
}
