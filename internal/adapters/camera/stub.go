package camera

import (
	"errors"
	"sync"
	"time"

	"github.com/pirlabs/pircam/internal/domain"
)

// ErrStubActivate is returned by a Stub configured to fail activation.
var ErrStubActivate = errors.New("camera: stub activation failure")

// Stub serves scripted frames. An empty script repeats a fixed tiny JPEG;
// a nil entry in the script yields "no frame" for that call.
type Stub struct {
	mu        sync.Mutex
	script    [][]byte
	next      int
	active    bool
	failStart bool
}

// placeholderJPEG is the smallest byte sequence that passes a SOI/EOI check.
var placeholderJPEG = []byte{0xff, 0xd8, 0xff, 0xd9}

// NewStub creates a stub that cycles through frames.
func NewStub(frames ...[]byte) *Stub {
	return &Stub{script: frames}
}

// FailActivation makes every Activate call return ErrStubActivate.
func (s *Stub) FailActivation() *Stub {
	s.failStart = true
	return s
}

func (s *Stub) Activate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStart {
		return ErrStubActivate
	}
	s.active = true
	return nil
}

func (s *Stub) Deactivate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	return nil
}

// Active reports whether the stub is powered.
func (s *Stub) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Stub) Acquire() (domain.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return domain.Frame{}, false
	}
	if len(s.script) == 0 {
		return domain.Frame{Data: placeholderJPEG, CapturedAt: time.Now()}, true
	}

	data := s.script[s.next%len(s.script)]
	s.next++
	if len(data) == 0 {
		return domain.Frame{}, false
	}
	return domain.Frame{Data: data, CapturedAt: time.Now()}, true
}
