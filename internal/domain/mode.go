package domain

// DeviceMode is the power/capture state of the device.
// The zero value is ModeIdle, the state entered on power-on and on every wake.
type DeviceMode int

const (
	ModeIdle DeviceMode = iota
	ModeCapturing
	ModeSleeping
)

// String returns a human-readable representation of the mode.
func (m DeviceMode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeCapturing:
		return "Capturing"
	case ModeSleeping:
		return "Sleeping"
	default:
		return "Unknown"
	}
}

// WakeCause tells why the process is running. It is the only thing that
// survives a low-power sleep.
type WakeCause int

const (
	WakeCausePowerOn WakeCause = iota
	WakeCauseMotion
)

func (c WakeCause) String() string {
	switch c {
	case WakeCausePowerOn:
		return "power-on"
	case WakeCauseMotion:
		return "motion"
	default:
		return "unknown"
	}
}
