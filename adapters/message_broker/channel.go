package message_broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ArjunDas2003/ai-chatbot/domain"
	"github.com/ArjunDas2003/ai-chatbot/utils/log"
)

// ChannelMessageBroker implements MessageBroker using Go channels, the
// in-process default when no Redis is configured.
type ChannelMessageBroker struct {
	topics map[string]chan domain.Message
	mu     sync.Mutex
	closed bool
}

// NewChannelMessageBroker creates a new channel-based message broker
func NewChannelMessageBroker() *ChannelMessageBroker {
	return &ChannelMessageBroker{
		topics: make(map[string]chan domain.Message),
	}
}

// Topic channels ignore the routing key: every subscriber of a topic sees
// every message, matching the fan-out the websocket listener needs.
func (b *ChannelMessageBroker) channelFor(topic string) (chan domain.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("message broker is closed")
	}
	channel, exists := b.topics[topic]
	if !exists {
		channel = make(chan domain.Message, 100)
		b.topics[topic] = channel
	}
	return channel, nil
}

// Publish sends a message to a topic without blocking; a full topic channel
// is an error rather than a stall.
func (b *ChannelMessageBroker) Publish(ctx context.Context, topic string, routingKey string, message []byte) error {
	channel, err := b.channelFor(topic)
	if err != nil {
		return err
	}

	msg := domain.Message{
		Topic:      topic,
		RoutingKey: routingKey,
		Payload:    message,
		Timestamp:  time.Now(),
	}

	select {
	case channel <- msg:
		log.WithCtx(ctx).Debug("message published",
			zap.String("topic", topic),
			zap.String("routing_key", routingKey),
			zap.Int("payload_size", len(message)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("topic channel is full: %s", topic)
	}
}

// Subscribe listens for messages on a topic.
func (b *ChannelMessageBroker) Subscribe(ctx context.Context, topic string, routingKey string) (<-chan domain.Message, error) {
	channel, err := b.channelFor(topic)
	if err != nil {
		return nil, err
	}
	log.WithCtx(ctx).Info("subscribed to topic", zap.String("topic", topic))
	return channel, nil
}

// Close closes the message broker and all topic channels
func (b *ChannelMessageBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, channel := range b.topics {
		close(channel)
	}
	b.topics = make(map[string]chan domain.Message)
	return nil
}

var _ domain.MessageBroker = (*ChannelMessageBroker)(nil)
