package broadcast

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/veloship/veloship/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires the transport selected by BROADCAST_DRIVER plus the
// dispatcher. The in-memory hub is always constructed, and external
// drivers are teed through it so local subscribers (the SSE stream)
// keep receiving events regardless of the outbound driver.
var Module = fx.Module("broadcast",
	fx.Provide(NewHub),
	fx.Provide(NewTransport),
	fx.Provide(NewDispatcher),
)

func NewTransport(lc fx.Lifecycle, cfg config.Config, hub *Hub, log *zap.Logger) (Transport, error) {
	switch cfg.BroadcastDriver {
	case config.BroadcastRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closeOnStop(lc, func() { _ = client.Close() })
		log.Info("broadcast transport configured", zap.String("driver", "redis"), zap.String("addr", cfg.RedisAddr))
		return newTeeTransport(NewRedisTransport(client), hub), nil
	case config.BroadcastAMQP:
		transport, err := NewAMQPTransport(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, err
		}
		closeOnStop(lc, transport.Close)
		log.Info("broadcast transport configured", zap.String("driver", "amqp"), zap.String("exchange", cfg.AMQPExchange))
		return newTeeTransport(transport, hub), nil
	default:
		log.Info("broadcast transport configured", zap.String("driver", "memory"))
		return hub, nil
	}
}

func closeOnStop(lc fx.Lifecycle, close func()) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			close()
			return nil
		},
	})
}

// teeTransport mirrors every publish into the in-process hub before
// handing it to the external driver, so SSE subscribers see the same
// stream the outbound transport carries.
type teeTransport struct {
	primary Transport
	hub     *Hub
}

func newTeeTransport(primary Transport, hub *Hub) Transport {
	return &teeTransport{primary: primary, hub: hub}
}

func (t *teeTransport) Publish(ctx context.Context, channel string, msg Message) error {
	_ = t.hub.Publish(ctx, channel, msg)
	return t.primary.Publish(ctx, channel, msg)
}
