package message_broker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ArjunDas2003/ai-chatbot/domain"
	"github.com/ArjunDas2003/ai-chatbot/utils/log"
)

// RedisMessageBroker implements MessageBroker over Redis pub/sub so turn
// events reach websocket clients connected to any instance.
type RedisMessageBroker struct {
	rdb *redis.Client
}

func NewRedisMessageBroker(rdb *redis.Client) *RedisMessageBroker {
	return &RedisMessageBroker{rdb: rdb}
}

func (b *RedisMessageBroker) Publish(ctx context.Context, topic string, routingKey string, message []byte) error {
	return b.rdb.Publish(ctx, topic, message).Err()
}

func (b *RedisMessageBroker) Subscribe(ctx context.Context, topic string, routingKey string) (<-chan domain.Message, error) {
	sub := b.rdb.Subscribe(ctx, topic)
	// Force the subscription onto the wire before the caller relies on it.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan domain.Message, 100)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				select {
				case out <- domain.Message{
					Topic:      msg.Channel,
					RoutingKey: routingKey,
					Payload:    []byte(msg.Payload),
					Timestamp:  time.Now(),
				}:
				default:
					log.WithCtx(ctx).Warn("dropping message, subscriber is slow",
						zap.String("topic", msg.Channel))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *RedisMessageBroker) Close() error {
	return b.rdb.Close()
}

var _ domain.MessageBroker = (*RedisMessageBroker)(nil)
