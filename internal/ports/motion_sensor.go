package ports

import "github.com/pirlabs/pircam/internal/domain"

// MotionSensor reads the monitored motion line.
type MotionSensor interface {
	ReadLevel() (domain.Level, error)
}
