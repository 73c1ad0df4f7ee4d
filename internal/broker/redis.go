package broker

import (
	"context"
	"fmt"
	"strings"

	"edlink/config"
	"edlink/internal/logger"
	"edlink/internal/ws"

	"github.com/redis/go-redis/v9"
)

// RedisBroker publishes events to Redis and relays every subject channel
// back into the local hub, so subscribers on any instance receive them.
type RedisBroker struct {
	client *redis.Client
	hub    *ws.Hub
	prefix string
}

func NewRedisBroker(ctx context.Context, cfg config.RedisConfig, hub *ws.Hub) (*RedisBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisBroker{client: client, hub: hub, prefix: cfg.ChannelPrefix}, nil
}

func (b *RedisBroker) channel(topic string) string {
	return b.prefix + ":" + topic
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, ev *ws.Event) error {
	data, err := ws.Encode(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel(topic), data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", topic, err)
	}
	return nil
}

// Run relays messages from Redis into the hub until ctx is done.
func (b *RedisBroker) Run(ctx context.Context) error {
	sub := b.client.PSubscribe(ctx, b.channel("subject:*"))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis psubscribe: %w", err)
	}

	log := logger.Ctx(ctx)
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			topic := strings.TrimPrefix(msg.Channel, b.prefix+":")
			n := b.hub.Publish(topic, []byte(msg.Payload))
			log.Debug().Str("topic", topic).Int("delivered", n).Msg("relayed event")
		}
	}
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
