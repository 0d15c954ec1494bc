package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher is the subset of the go-redis client used by the relay.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// PublishTimeout bounds a single publish. Handlers run inside the request
// that raised the event.
const PublishTimeout = 2 * time.Second

// RedisRelay forwards events to a Redis pub/sub channel as JSON.
type RedisRelay struct {
	client  Publisher
	channel string
	timeout time.Duration
}

// NewRedisRelay builds a relay for channel.
func NewRedisRelay(client Publisher, channel string) *RedisRelay {
	return &RedisRelay{client: client, channel: channel, timeout: PublishTimeout}
}

// Handle implements EventHandler.
func (r *RedisRelay) Handle(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, body).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}
	return nil
}
