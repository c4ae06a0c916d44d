package broadcast

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/veloship/veloship/internal/observability"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Dispatcher fans a change event out to its channel set. Delivery is
// at-most-once and best effort: a failed publish on one channel is logged
// and counted, and the remaining channels are still attempted. Dispatch
// failures never surface to the caller; by the time an event reaches the
// dispatcher its status change is already persisted.
type Dispatcher struct {
	transport Transport
	log       *zap.Logger
	metrics   *observability.Metrics
}

type DispatcherParams struct {
	fx.In

	Transport Transport
	Log       *zap.Logger
	Metrics   *observability.Metrics `optional:"true"`
}

func NewDispatcher(p DispatcherParams) *Dispatcher {
	return &Dispatcher{
		transport: p.Transport,
		log:       p.Log.Named("broadcast.dispatcher"),
		metrics:   p.Metrics,
	}
}

// Dispatch publishes the payload under the event name to every channel.
// The payload gains a top-level "timestamp" marking dispatch time,
// distinct from the entity's own updated_at.
func (d *Dispatcher) Dispatch(ctx context.Context, eventName string, channels []string, payload map[string]any) {
	if d == nil || d.transport == nil {
		return
	}

	payload["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	eventID := uuid.NewString()

	for _, channel := range channels {
		msg := Message{
			Event:   eventName,
			Channel: channel,
			Data:    payload,
		}
		if err := d.transport.Publish(ctx, channel, msg); err != nil {
			d.metrics.RecordPublish(false)
			d.log.Warn("channel publish failed",
				zap.String("event", eventName),
				zap.String("event_id", eventID),
				zap.String("channel", channel),
				zap.Error(err),
			)
			continue
		}
		d.metrics.RecordPublish(true)
	}

	d.log.Debug("event dispatched",
		zap.String("event", eventName),
		zap.String("event_id", eventID),
		zap.Int("channels", len(channels)),
	)
}
