// Package camera provides image sensor drivers.
package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

// DefaultCaptureTimeout bounds a single capture command.
const DefaultCaptureTimeout = 5 * time.Second

// jpegSOI is the start-of-image marker every JPEG begins with.
var jpegSOI = []byte{0xff, 0xd8}

// ExecDriver captures frames by running an external command that writes one
// JPEG image to stdout, e.g. "libcamera-still -n -t 1 -o -".
type ExecDriver struct {
	name    string
	args    []string
	timeout time.Duration
	logger  ports.Logger
	active  bool
}

// NewExecDriver parses a whitespace-separated command line.
func NewExecDriver(command string, timeout time.Duration, logger ports.Logger) (*ExecDriver, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("camera: empty capture command")
	}
	if timeout <= 0 {
		timeout = DefaultCaptureTimeout
	}
	return &ExecDriver{
		name:    fields[0],
		args:    fields[1:],
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Activate checks that the capture command can be run.
func (d *ExecDriver) Activate() error {
	if d.active {
		return nil
	}
	if _, err := exec.LookPath(d.name); err != nil {
		return fmt.Errorf("camera: capture command: %w", err)
	}
	d.active = true
	d.logger.Debug("camera activated", ports.String("command", d.name))
	return nil
}

// Deactivate marks the sensor released.
func (d *ExecDriver) Deactivate() error {
	if d.active {
		d.logger.Debug("camera deactivated")
	}
	d.active = false
	return nil
}

// Acquire runs the capture command once.
// A failed run or output that is not a JPEG yields no frame.
func (d *ExecDriver) Acquire() (domain.Frame, bool) {
	if !d.active {
		return domain.Frame{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.name, d.args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		d.logger.Debug("capture command failed",
			ports.Err(err),
			ports.String("stderr", strings.TrimSpace(stderr.String())),
		)
		return domain.Frame{}, false
	}

	data := stdout.Bytes()
	if !bytes.HasPrefix(data, jpegSOI) {
		d.logger.Debug("capture produced no jpeg", ports.Int("bytes", len(data)))
		return domain.Frame{}, false
	}
	return domain.Frame{Data: data, CapturedAt: time.Now()}, true
}
