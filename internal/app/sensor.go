package app

import (
	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

// sensorHandle is the only path to the camera. It remembers whether the
// Device activated the sensor so a capture can never run against a sensor the
// state machine believes is off.
type sensorHandle struct {
	camera ports.Camera
	active bool
}

func (s *sensorHandle) Activate() error {
	if err := s.camera.Activate(); err != nil {
		return err
	}
	s.active = true
	return nil
}

func (s *sensorHandle) Deactivate() error {
	s.active = false
	return s.camera.Deactivate()
}

func (s *sensorHandle) Active() bool {
	return s.active
}

func (s *sensorHandle) Acquire() (domain.Frame, bool) {
	if !s.active {
		return domain.Frame{}, false
	}
	return s.camera.Acquire()
}
