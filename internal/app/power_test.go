package app

import (
	"testing"
	"time"

	"github.com/pirlabs/pircam/internal/domain"
)

func TestPowerController_ShouldSleep_WindowBoundary(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var motion domain.MotionEvidence
	var commands domain.CommandState
	p := NewPowerController(1, 10*time.Second, &motion, &commands)
	p.RecordMotion(t0)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just before window", t0.Add(9999 * time.Millisecond), false},
		{"exactly at window", t0.Add(10 * time.Second), true},
		{"past window", t0.Add(time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ShouldSleep(tt.now); got != tt.want {
				t.Errorf("ShouldSleep() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPowerController_ShouldSleep_StableUntilMotion(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var motion domain.MotionEvidence
	commands := domain.CommandState{CaptureEnabled: true}
	p := NewPowerController(1, 10*time.Second, &motion, &commands)
	p.Boot(t0)

	now := t0.Add(10 * time.Second)
	for i := 0; i < 5; i++ {
		if !p.ShouldSleep(now) {
			t.Fatalf("call %d: ShouldSleep() = false after window elapsed", i)
		}
		now = now.Add(time.Second)
	}

	p.RecordMotion(now)
	if p.ShouldSleep(now) {
		t.Error("ShouldSleep() = true right after motion")
	}
}

func TestPowerController_ShouldEnterCapturing(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		detects   int
		enabled   bool
		want      bool
	}{
		{"no motion", 1, 0, true, false},
		{"threshold reached, enabled", 1, 1, true, true},
		{"threshold reached, disabled", 1, 3, false, false},
		{"below higher threshold", 3, 2, true, false},
		{"at higher threshold", 3, 3, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var motion domain.MotionEvidence
			commands := domain.CommandState{CaptureEnabled: tt.enabled}
			p := NewPowerController(tt.threshold, time.Second, &motion, &commands)
			now := time.Now()
			for i := 0; i < tt.detects; i++ {
				p.RecordMotion(now)
			}
			if got := p.ShouldEnterCapturing(); got != tt.want {
				t.Errorf("ShouldEnterCapturing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPowerController_ClearAndBoot(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var motion domain.MotionEvidence
	var commands domain.CommandState
	p := NewPowerController(1, 10*time.Second, &motion, &commands)

	p.RecordMotion(t0)
	p.RecordMotion(t0.Add(time.Second))
	if motion.Count != 2 {
		t.Fatalf("Count = %d, want 2", motion.Count)
	}

	p.Clear()
	if motion.Count != 0 {
		t.Errorf("Count after Clear = %d, want 0", motion.Count)
	}

	wake := t0.Add(time.Hour)
	p.Boot(wake)
	if motion.Count != 0 || !motion.LastDetection.Equal(wake) {
		t.Errorf("after Boot: %+v, want count 0 and last detection %v", motion, wake)
	}
	if p.ShouldSleep(wake.Add(5 * time.Second)) {
		t.Error("ShouldSleep() = true inside the window after boot")
	}
}
