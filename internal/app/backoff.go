package app

import (
	"context"
	"time"

	"github.com/pirlabs/pircam/internal/ports"
)

// DefaultReconnectBackoff is the delay between command channel connect attempts.
const DefaultReconnectBackoff = 5 * time.Second

// backoff spaces out retries by a fixed delay and counts them.
type backoff struct {
	delay    time.Duration
	attempts int
}

// newBackoff creates a backoff with the given delay.
func newBackoff(delay time.Duration) *backoff {
	return &backoff{delay: delay}
}

// Sleep waits for the delay on clock.
// It returns ctx.Err() if ctx is canceled while waiting.
func (b *backoff) Sleep(ctx context.Context, clock ports.Clock) error {
	b.attempts++
	return clock.Sleep(ctx, b.delay)
}

// Reset clears the attempt count.
func (b *backoff) Reset() {
	b.attempts = 0
}

// Current returns the delay before the next attempt.
func (b *backoff) Current() time.Duration {
	return b.delay
}

// Attempts returns the number of sleeps since the last Reset.
func (b *backoff) Attempts() int {
	return b.attempts
}
