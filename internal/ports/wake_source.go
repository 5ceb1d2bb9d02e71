package ports

import (
	"context"

	"github.com/pirlabs/pircam/internal/domain"
)

// WakeSource controls low-power suspension.
type WakeSource interface {
	// WakeCause reports why the current wake cycle started.
	WakeCause() domain.WakeCause

	// ArmWakeOnRisingEdge configures the motion line as the wake signal.
	ArmWakeOnRisingEdge() error

	// EnterLowPower suspends until the armed wake signal fires.
	// It returns early only when ctx is canceled.
	EnterLowPower(ctx context.Context) error
}
