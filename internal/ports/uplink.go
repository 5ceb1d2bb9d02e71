package ports

import "context"

// Uplink delivers frames and diagnostics to the remote collector.
// Failures are returned as *domain.IOError and are never retried by the core.
type Uplink interface {
	// Upload sends one encoded frame with the given content type.
	Upload(ctx context.Context, data []byte, contentType string) error

	// LogEvent sends a UTF-8 diagnostic line.
	LogEvent(ctx context.Context, message string) error
}
