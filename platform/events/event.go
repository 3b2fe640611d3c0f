// Package events provides the in-process publish/subscribe infrastructure
// the bounded contexts communicate through. Domain event types live with
// their owning context; this package only knows the contract.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName identifies the event type, e.g. "leads.lead.scored".
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// BaseEvent carries the occurrence timestamp; embed it in event structs.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes events of a single type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes events to subscribed handlers.
type Bus interface {
	// Publish delivers the event to every handler registered for its name.
	// Delivery is asynchronous.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event and waits for all handlers.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for events with the given name.
	Subscribe(eventName string, handler Handler)
}
