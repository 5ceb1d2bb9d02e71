package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pirlabs/pircam/internal/adapters/log"
	"github.com/pirlabs/pircam/internal/domain"
)

type capturedRequest struct {
	method      string
	path        string
	contentType string
	session     string
	body        string
}

func newCollector(t *testing.T, status int) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var got []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, capturedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			session:     r.Header.Get(sessionHeader),
			body:        string(body),
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte("collector says no\n"))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestUplink_Upload(t *testing.T) {
	srv, got := newCollector(t, http.StatusOK)
	u := NewUplink(srv.Client(), log.NewNoopLogger(), srv.URL+"/upload", srv.URL+"/log", "session-1")

	if err := u.Upload(context.Background(), []byte{0xff, 0xd8, 0xff}, domain.ContentTypeJPEG); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if len(*got) != 1 {
		t.Fatalf("requests = %d, want 1", len(*got))
	}
	req := (*got)[0]
	if req.method != http.MethodPost || req.path != "/upload" {
		t.Errorf("request = %s %s, want POST /upload", req.method, req.path)
	}
	if req.contentType != domain.ContentTypeJPEG {
		t.Errorf("Content-Type = %q", req.contentType)
	}
	if req.session != "session-1" {
		t.Errorf("session header = %q", req.session)
	}
	if req.body != "\xff\xd8\xff" {
		t.Errorf("body = %q", req.body)
	}
}

func TestUplink_LogEvent(t *testing.T) {
	srv, got := newCollector(t, http.StatusNoContent)
	u := NewUplink(srv.Client(), log.NewNoopLogger(), srv.URL+"/upload", srv.URL+"/log", "")

	if err := u.LogEvent(context.Background(), "FPS: 12"); err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	req := (*got)[0]
	if req.path != "/log" || req.body != "FPS: 12" {
		t.Errorf("request = %s %q", req.path, req.body)
	}
	if req.contentType != contentTypeText {
		t.Errorf("Content-Type = %q", req.contentType)
	}
	if req.session != "" {
		t.Errorf("session header = %q, want none", req.session)
	}
}

func TestUplink_LogEventDisabled(t *testing.T) {
	srv, got := newCollector(t, http.StatusOK)
	u := NewUplink(srv.Client(), log.NewNoopLogger(), srv.URL+"/upload", "", "")

	if err := u.LogEvent(context.Background(), "ignored"); err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}
	if len(*got) != 0 {
		t.Errorf("requests = %d, want 0", len(*got))
	}
}

func TestUplink_Non2xxIsTransient(t *testing.T) {
	srv, _ := newCollector(t, http.StatusServiceUnavailable)
	u := NewUplink(srv.Client(), log.NewNoopLogger(), srv.URL+"/upload", "", "")

	err := u.Upload(context.Background(), []byte("x"), domain.ContentTypeJPEG)
	if !errors.Is(err, domain.ErrTransientIO) {
		t.Fatalf("Upload() error = %v, want ErrTransientIO", err)
	}

	var ioErr *domain.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error is %T, want *domain.IOError", err)
	}
	if ioErr.StatusCode != http.StatusServiceUnavailable || ioErr.Op != "upload" {
		t.Errorf("IOError = %+v", ioErr)
	}
	if ioErr.Err.Error() != "collector says no" {
		t.Errorf("body = %q", ioErr.Err.Error())
	}
}

type failingClient struct{}

func (failingClient) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestUplink_TransportFailure(t *testing.T) {
	u := NewUplink(failingClient{}, log.NewNoopLogger(), "http://collector.invalid/upload", "", "")

	err := u.Upload(context.Background(), []byte("x"), domain.ContentTypeJPEG)
	if !errors.Is(err, domain.ErrTransientIO) {
		t.Fatalf("Upload() error = %v, want ErrTransientIO", err)
	}
	var ioErr *domain.IOError
	if errors.As(err, &ioErr) && ioErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", ioErr.StatusCode)
	}
}
