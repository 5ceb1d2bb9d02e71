package ports

import (
	"context"
	"time"
)

// Clock is the time source of the control loop.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is canceled.
	Sleep(ctx context.Context, d time.Duration) error
}
