package broadcast

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisTransport publishes messages over redis pub/sub, one redis channel
// per broadcast channel.
type RedisTransport struct {
	client *redis.Client
}

func NewRedisTransport(client *redis.Client) *RedisTransport {
	return &RedisTransport{client: client}
}

func (t *RedisTransport) Publish(ctx context.Context, channel string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return t.client.Publish(ctx, channel, payload).Err()
}
