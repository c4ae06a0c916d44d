package broadcast

import "context"

// Message is the wire unit delivered to one channel.
type Message struct {
	Event   string         `json:"event"`
	Channel string         `json:"channel"`
	Data    map[string]any `json:"data"`
}

// Transport publishes a message to a single named channel. Implementations
// must treat every publish independently; a failure on one channel must
// not affect publishes to others.
type Transport interface {
	Publish(ctx context.Context, channel string, msg Message) error
}
