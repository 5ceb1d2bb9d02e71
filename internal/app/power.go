package app

import (
	"time"

	"github.com/pirlabs/pircam/internal/domain"
)

// Power tunables.
const (
	// DefaultMotionThreshold is the number of detections required to arm capture.
	DefaultMotionThreshold = 1

	// DefaultInactivityWindow is the idle duration before forced sleep.
	DefaultInactivityWindow = 10 * time.Second
)

// PowerController decides when motion arms capture and when inactivity forces
// sleep. It reads and writes state owned by the Device.
type PowerController struct {
	threshold int
	window    time.Duration
	motion    *domain.MotionEvidence
	commands  *domain.CommandState
}

// NewPowerController creates a controller over the given state.
func NewPowerController(threshold int, window time.Duration, motion *domain.MotionEvidence, commands *domain.CommandState) *PowerController {
	return &PowerController{
		threshold: threshold,
		window:    window,
		motion:    motion,
		commands:  commands,
	}
}

// RecordMotion registers one detection at now.
func (p *PowerController) RecordMotion(now time.Time) {
	p.motion.Record(now)
}

// ShouldEnterCapturing reports whether enough motion has been seen and capture
// is enabled.
func (p *PowerController) ShouldEnterCapturing() bool {
	return p.motion.Count >= p.threshold && p.commands.CaptureEnabled
}

// ShouldSleep reports whether the inactivity window has elapsed since the last
// detection. The capture flag does not matter.
func (p *PowerController) ShouldSleep(now time.Time) bool {
	return now.Sub(p.motion.LastDetection) >= p.window
}

// Clear drops motion evidence. Called on entry to Sleeping.
func (p *PowerController) Clear() {
	p.motion.Clear()
}

// Boot drops all evidence and starts a fresh inactivity window at now.
func (p *PowerController) Boot(now time.Time) {
	p.motion.Clear()
	p.motion.LastDetection = now
}

// Evidence returns a copy of the current motion evidence.
func (p *PowerController) Evidence() domain.MotionEvidence {
	return *p.motion
}
