package app

import (
	"context"
	"fmt"
	"time"

	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

// Capture cadence defaults.
const (
	// DefaultTickInterval throttles the loop and bounds the capture rate.
	DefaultTickInterval = 15 * time.Millisecond

	// DefaultMetricsInterval is the throughput reporting window.
	DefaultMetricsInterval = time.Second
)

// TickOutcome describes what one capture/upload step did.
type TickOutcome int

const (
	OutcomeSkipped TickOutcome = iota
	OutcomeNoFrame
	OutcomeUploaded
	OutcomeUploadFailed
)

func (o TickOutcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNoFrame:
		return "no-frame"
	case OutcomeUploaded:
		return "uploaded"
	case OutcomeUploadFailed:
		return "upload-failed"
	default:
		return "unknown"
	}
}

// frameSource is the read-only view of the image sensor. Activation stays
// with the Device.
type frameSource interface {
	Acquire() (domain.Frame, bool)
}

// Coordinator runs the acquire -> upload step of a tick and keeps throughput
// counters.
type Coordinator struct {
	frames           frameSource
	uplink           ports.Uplink
	metrics          *domain.FrameMetrics
	clock            ports.Clock
	logger           ports.Logger
	reportThroughput bool
}

// NewCoordinator creates a coordinator.
func NewCoordinator(frames frameSource, uplink ports.Uplink, metrics *domain.FrameMetrics, clock ports.Clock, logger ports.Logger, reportThroughput bool) *Coordinator {
	return &Coordinator{
		frames:           frames,
		uplink:           uplink,
		metrics:          metrics,
		clock:            clock,
		logger:           logger,
		reportThroughput: reportThroughput,
	}
}

// RunTick captures and uploads at most one frame when mode is Capturing.
// Failures never escape: an empty acquire or a failed upload is counted and
// the frame, if any, is dropped.
func (c *Coordinator) RunTick(ctx context.Context, mode domain.DeviceMode) TickOutcome {
	c.roll(ctx)

	if mode != domain.ModeCapturing {
		return OutcomeSkipped
	}

	frame, ok := c.frames.Acquire()
	if !ok || frame.Empty() {
		c.metrics.CaptureFailures++
		c.logger.Debug("failed to capture frame")
		return OutcomeNoFrame
	}

	if err := c.uplink.Upload(ctx, frame.Data, domain.ContentTypeJPEG); err != nil {
		c.metrics.UploadFailures++
		c.logger.Warn("error sending frame",
			ports.Int("bytes", frame.Len()),
			ports.Err(err),
		)
		// best-effort; the collector is likely unreachable too
		_ = c.uplink.LogEvent(ctx, fmt.Sprintf("Error sending frame: %v", err))
		return OutcomeUploadFailed
	}

	c.metrics.Uploaded++
	return OutcomeUploaded
}

// roll closes the metrics window at its boundary and reports it.
func (c *Coordinator) roll(ctx context.Context) {
	closed, ok := c.metrics.Roll(c.clock.Now())
	if !ok {
		return
	}
	if closed.Uploaded == 0 && closed.UploadFailures == 0 && closed.CaptureFailures == 0 {
		return
	}

	c.logger.Info("throughput",
		ports.Int("fps", closed.Uploaded),
		ports.Int("upload_failures", closed.UploadFailures),
		ports.Int("capture_failures", closed.CaptureFailures),
	)
	if c.reportThroughput {
		_ = c.uplink.LogEvent(ctx, fmt.Sprintf("FPS: %d", closed.Uploaded))
	}
}
