// Package broker fans realtime events out to subscribed connections, either
// in-process or across instances through Redis pub/sub.
package broker

import (
	"context"
	"fmt"

	"edlink/internal/ws"
)

// Publisher delivers an event to every subscriber of topic. Delivery is
// fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev *ws.Event) error
}

// LocalBroker publishes straight into the process hub.
type LocalBroker struct {
	hub *ws.Hub
}

func NewLocalBroker(hub *ws.Hub) *LocalBroker {
	return &LocalBroker{hub: hub}
}

func (b *LocalBroker) Publish(_ context.Context, topic string, ev *ws.Event) error {
	data, err := ws.Encode(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	b.hub.Publish(topic, data)
	return nil
}
