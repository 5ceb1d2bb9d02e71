// Package gpio reads digital lines exposed as value files, such as
// /sys/class/gpio/gpioN/value, and uses them as a wake source.
package gpio

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pirlabs/pircam/internal/domain"
)

// Line is one digital input backed by a value file holding "0" or "1".
type Line struct {
	path string
}

// NewLine returns a line reading from path.
func NewLine(path string) *Line {
	return &Line{path: path}
}

// Path returns the value file path.
func (l *Line) Path() string {
	return l.path
}

// ReadLevel implements ports.MotionSensor.
func (l *Line) ReadLevel() (domain.Level, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return domain.LevelLow, fmt.Errorf("gpio: read %s: %w", l.path, err)
	}
	switch string(bytes.TrimSpace(raw)) {
	case "1":
		return domain.LevelHigh, nil
	case "0":
		return domain.LevelLow, nil
	default:
		return domain.LevelLow, fmt.Errorf("gpio: unexpected value %q in %s", bytes.TrimSpace(raw), l.path)
	}
}
