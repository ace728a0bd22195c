// Package eventbus provides event-driven notification infrastructure
// for workflow launches.
package eventbus

import (
	"context"

	"github.com/mkravets/pathway/pkg/events"
)

// Event is anything publishable on the bus.
type Event interface {
	GetType() events.EventType
}

// EventPublisher publishes events keyed by workflow ID.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// EventHandler consumes one decoded event.
type EventHandler func(ctx context.Context, event any) error

// EventSubscriber registers handlers and starts consumption.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventBus combines publishing and subscribing over one transport.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
