package domain

import "time"

// FrameMetrics counts capture results within one reporting interval.
// It exists for observability only; no decision depends on it.
type FrameMetrics struct {
	Interval        time.Duration
	WindowStart     time.Time
	Uploaded        int
	UploadFailures  int
	CaptureFailures int
}

// NewFrameMetrics starts a window at now.
func NewFrameMetrics(interval time.Duration, now time.Time) FrameMetrics {
	return FrameMetrics{Interval: interval, WindowStart: now}
}

// Roll closes the current window if now has reached its boundary.
// It returns the closed window and true, and starts a fresh window at now.
// Counters reset regardless of how successes and failures were distributed.
func (m *FrameMetrics) Roll(now time.Time) (FrameMetrics, bool) {
	if now.Sub(m.WindowStart) < m.Interval {
		return FrameMetrics{}, false
	}
	closed := *m
	*m = NewFrameMetrics(m.Interval, now)
	return closed, true
}
