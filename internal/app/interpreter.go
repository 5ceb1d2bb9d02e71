package app

import (
	"github.com/pirlabs/pircam/internal/domain"
	"github.com/pirlabs/pircam/internal/ports"
)

// DefaultControlTopic is the topic remote start/stop commands arrive on.
const DefaultControlTopic = "wakeup/espCamera"

// modeRequester applies a mode change together with its sensor side effects.
type modeRequester interface {
	requestMode(mode domain.DeviceMode, reason string) error
}

// CommandInterpreter maps control messages to capture enable/disable.
// It is only ever invoked from CommandChannel.Poll, so it runs inside the
// "service pending commands" step of a tick.
type CommandInterpreter struct {
	topic     string
	commands  *domain.CommandState
	power     *PowerController
	requester modeRequester
	clock     ports.Clock
	logger    ports.Logger
}

// NewCommandInterpreter creates an interpreter for the given control topic.
func NewCommandInterpreter(topic string, commands *domain.CommandState, power *PowerController, requester modeRequester, clock ports.Clock, logger ports.Logger) *CommandInterpreter {
	return &CommandInterpreter{
		topic:     topic,
		commands:  commands,
		power:     power,
		requester: requester,
		clock:     clock,
		logger:    logger,
	}
}

// Topic returns the control topic.
func (i *CommandInterpreter) Topic() string {
	return i.topic
}

// OnMessage handles one inbound message. Other topics and malformed payloads
// are dropped without surfacing an error.
func (i *CommandInterpreter) OnMessage(topic string, payload []byte) {
	if topic != i.topic {
		i.logger.Debug("ignoring message on foreign topic", ports.String("topic", topic))
		return
	}

	cmd, err := domain.ParseCommand(payload)
	if err != nil {
		i.logger.Warn("ignoring malformed command",
			ports.String("topic", topic),
			ports.Err(err),
		)
		return
	}

	i.commands.Apply(cmd, i.clock.Now())
	i.logger.Info("command received",
		ports.String("command", cmd.String()),
		ports.Bool("capture_enabled", i.commands.CaptureEnabled),
	)

	switch cmd {
	case domain.CommandStart:
		if !i.power.ShouldEnterCapturing() {
			return
		}
		if err := i.requester.requestMode(domain.ModeCapturing, "start command"); err != nil {
			i.logger.Error("start command failed", ports.Err(err))
		}
	case domain.CommandStop:
		if err := i.requester.requestMode(domain.ModeIdle, "stop command"); err != nil {
			i.logger.Error("stop command failed", ports.Err(err))
		}
	}
}
