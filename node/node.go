package node

import (
	"context"

	"github.com/google/uuid"

	"github.com/s0up4200/listnode/normalize"
)

// Message is what flows between nodes
type Message struct {
	ID      string         `json:"_msgid" yaml:"id"`
	Topic   string         `json:"topic,omitempty" yaml:"topic"`
	Payload map[string]any `json:"payload" yaml:"payload"`
	Error   string         `json:"error,omitempty" yaml:"error"`
}

// NewMessage creates a message with a fresh id
func NewMessage(payload map[string]any) Message {
	return Message{ID: uuid.NewString(), Payload: payload}
}

// Status is the indicator a node shows in the host
type Status = normalize.Indicator

// SendFunc emits a message downstream
type SendFunc func(msg Message)

// StatusFunc updates the node's status indicator
type StatusFunc func(s Status)

// Config is the per-instance node configuration
type Config map[string]any

// Node handles input messages. Input calls send exactly once per message.
type Node interface {
	Type() string
	Input(ctx context.Context, msg Message, send SendFunc)
}

// Source is a node that also emits messages on its own
type Source interface {
	Node
	Start(send SendFunc) error
	Close() error
}
