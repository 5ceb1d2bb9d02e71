package domain

import "time"

// Level is the binary level of a monitored signal line.
type Level int

const (
	LevelLow Level = iota
	LevelHigh
)

func (l Level) String() string {
	if l == LevelHigh {
		return "high"
	}
	return "low"
}

// MotionEvidence counts motion detections since the last wake.
// Low reads do not clear the counter; only entry to Sleeping does.
type MotionEvidence struct {
	// Count is the number of high reads observed since the last clear
	Count int

	// LastDetection is the time of the most recent high read, or the wake
	// time when nothing has been detected yet
	LastDetection time.Time
}

// Record registers one detection at the given time.
func (m *MotionEvidence) Record(at time.Time) {
	m.Count++
	m.LastDetection = at
}

// Clear drops all evidence.
func (m *MotionEvidence) Clear() {
	m.Count = 0
	m.LastDetection = time.Time{}
}
