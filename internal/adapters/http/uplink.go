// Package http delivers frames and log lines to the collector over HTTP.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"

	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

const (
	sessionHeader = "X-Pircam-Session"
	osArchHeader  = "X-Pircam-OSArch"

	contentTypeText = "text/plain; charset=utf-8"

	// maxErrorBody bounds how much of a failed response is kept for the error.
	maxErrorBody = 512
)

// Uplink implements ports.Uplink with two collector endpoints.
type Uplink struct {
	client    ports.HTTPClient
	logger    ports.Logger
	uploadURL string
	logURL    string
	session   string
}

// NewUplink creates an HTTP uplink. An empty logURL disables LogEvent.
func NewUplink(client ports.HTTPClient, logger ports.Logger, uploadURL, logURL, session string) *Uplink {
	return &Uplink{
		client:    client,
		logger:    logger,
		uploadURL: uploadURL,
		logURL:    logURL,
		session:   session,
	}
}

// Upload posts one payload to the upload endpoint.
func (u *Uplink) Upload(ctx context.Context, data []byte, contentType string) error {
	return u.post(ctx, "upload", u.uploadURL, data, contentType)
}

// LogEvent posts a human-readable line to the log endpoint.
func (u *Uplink) LogEvent(ctx context.Context, message string) error {
	if u.logURL == "" {
		return nil
	}
	return u.post(ctx, "log", u.logURL, []byte(message), contentTypeText)
}

func (u *Uplink) post(ctx context.Context, op, url string, body []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &domain.IOError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set(osArchHeader, runtime.GOOS+"/"+runtime.GOARCH)
	if u.session != "" {
		req.Header.Set(sessionHeader, u.session)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return &domain.IOError{Op: op, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.IOError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        errors.New(string(bytes.TrimSpace(respBody))),
		}
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	u.logger.Debug("payload delivered",
		ports.String("op", op),
		ports.Int("bytes", len(body)),
		ports.Int("status", resp.StatusCode),
	)
	return nil
}
