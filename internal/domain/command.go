package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Command is a remote control code received on the control topic.
type Command int

const (
	// CommandStop disables capture.
	CommandStop Command = 0
	// CommandStart enables capture.
	CommandStart Command = 1
)

func (c Command) String() string {
	switch c {
	case CommandStop:
		return "stop"
	case CommandStart:
		return "start"
	default:
		return "unknown"
	}
}

// ParseCommand decodes a control payload. The payload is an ASCII integer,
// optionally surrounded by whitespace or NUL padding. Anything other than
// 0 or 1 is reported as ErrMalformedCommand.
func ParseCommand(payload []byte) (Command, error) {
	s := string(bytes.Trim(payload, " \t\r\n\x00"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCommand, s)
	}
	switch Command(n) {
	case CommandStop, CommandStart:
		return Command(n), nil
	default:
		return 0, fmt.Errorf("%w: unknown code %d", ErrMalformedCommand, n)
	}
}

// CommandState holds the capture flag set by the most recent remote command.
type CommandState struct {
	CaptureEnabled bool
	LastCommand    Command
	ReceivedAt     time.Time
}

// Apply records cmd as the most recent command.
func (s *CommandState) Apply(cmd Command, at time.Time) {
	s.CaptureEnabled = cmd == CommandStart
	s.LastCommand = cmd
	s.ReceivedAt = at
}
