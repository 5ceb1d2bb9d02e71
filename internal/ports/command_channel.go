package ports

import "context"

// MessageHandler receives one inbound message.
type MessageHandler func(topic string, payload []byte)

// CommandChannel is the pub/sub control channel.
//
// Inbound messages are buffered by the implementation and handed to the
// registered handler only from inside Poll, on the caller's goroutine.
// A fresh connection carries no subscriptions.
type CommandChannel interface {
	// Connected reports whether the channel is currently usable.
	Connected() bool

	// Connect establishes a new connection.
	Connect(ctx context.Context) error

	// Subscribe registers interest in a topic on the current connection.
	Subscribe(topic string) error

	// OnMessage registers the handler invoked by Poll.
	OnMessage(h MessageHandler)

	// Poll delivers all buffered messages to the handler before returning.
	Poll()

	// Disconnect drops the connection. It is safe to call when not connected.
	Disconnect()
}
