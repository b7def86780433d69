package domain

import (
	"context"
	"time"
)

// TurnTopic carries one TurnEvent per completed chat turn.
const TurnTopic = "chat.turns"

// MessageBroker defines the interface for message broker operations
type MessageBroker interface {
	// Publish sends a message to a specific topic/channel with a routing key
	Publish(ctx context.Context, topic string, routingKey string, message []byte) error

	// Subscribe listens for messages on a specific topic/channel and routing key
	Subscribe(ctx context.Context, topic string, routingKey string) (<-chan Message, error)

	// Close closes the message broker connection
	Close() error
}

// Message represents a message received from the broker
type Message struct {
	Topic      string
	RoutingKey string
	Payload    []byte
	Timestamp  time.Time
}

// TurnEvent is published after each successfully assembled chat turn so that
// the user's open websocket sessions can render it live.
type TurnEvent struct {
	UserID      int         `json:"user_id"`
	RequestID   string      `json:"request_id"`
	UserMessage string      `json:"user_message"`
	Action      ReplyAction `json:"action"`
	Speech      string      `json:"speech,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}
