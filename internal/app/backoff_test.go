package app

import (
	"context"
	"testing"
	"time"
)

func TestBackoff_Fixed(t *testing.T) {
	clock := newFakeClock()
	b := newBackoff(5 * time.Second)

	for i := 0; i < 3; i++ {
		if err := b.Sleep(context.Background(), clock); err != nil {
			t.Fatalf("Sleep() error = %v", err)
		}
	}

	for i, d := range clock.slept {
		if d != 5*time.Second {
			t.Errorf("sleep %d = %v, want 5s", i, d)
		}
	}
	if b.Attempts() != 3 {
		t.Errorf("Attempts() = %d, want 3", b.Attempts())
	}

	b.Reset()
	if b.Attempts() != 0 || b.Current() != 5*time.Second {
		t.Errorf("after Reset: attempts=%d current=%v", b.Attempts(), b.Current())
	}
}

func TestBackoff_DelayDoesNotGrow(t *testing.T) {
	clock := newFakeClock()
	b := newBackoff(100 * time.Millisecond)

	for i := 0; i < 4; i++ {
		_ = b.Sleep(context.Background(), clock)
		if b.Current() != 100*time.Millisecond {
			t.Fatalf("Current() after %d sleeps = %v, want 100ms", i+1, b.Current())
		}
	}
	if len(clock.slept) != 4 {
		t.Fatalf("slept %d times, want 4", len(clock.slept))
	}
	for i, d := range clock.slept {
		if d != 100*time.Millisecond {
			t.Errorf("sleep %d = %v, want 100ms", i, d)
		}
	}
}

func TestBackoff_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := newBackoff(time.Second)
	if err := b.Sleep(ctx, newFakeClock()); err != context.Canceled {
		t.Errorf("Sleep() error = %v, want context.Canceled", err)
	}
}

func TestSystemClock_SleepCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := SystemClock{}.Sleep(ctx, time.Minute)
	if err == nil {
		t.Fatal("Sleep() returned nil, want context error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Sleep() did not return on cancellation")
	}
}
