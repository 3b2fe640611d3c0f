package events

import (
	"context"
	"fmt"
	"sync"

	"msp_core_backend/platform/logger"
)

// InMemoryBus is a simple in-process event bus. Handlers for the same event
// name run in registration order. Publish dispatches on a new goroutine;
// PublishSync runs handlers inline and returns the first handler error.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the given event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event asynchronously. Handler errors and panics are
// logged, never propagated to the publisher.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	handlers := b.handlersFor(event.EventName())
	if len(handlers) == 0 {
		return
	}

	go func() {
		for _, h := range handlers {
			b.dispatch(ctx, event, h)
		}
	}()
}

// PublishSync dispatches the event inline and returns the first handler error.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	for _, h := range b.handlersFor(event.EventName()) {
		if err := h.Handle(ctx, event); err != nil {
			return fmt.Errorf("handle %s: %w", event.EventName(), err)
		}
	}
	return nil
}

func (b *InMemoryBus) handlersFor(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	registered := b.handlers[eventName]
	handlers := make([]Handler, len(registered))
	copy(handlers, registered)
	return handlers
}

func (b *InMemoryBus) dispatch(ctx context.Context, event Event, h Handler) {
	defer func() {
		if r := recover(); r != nil && b.log != nil {
			b.log.Error("event handler panic", "event", event.EventName(), "panic", fmt.Sprint(r))
		}
	}()

	if err := h.Handle(ctx, event); err != nil && b.log != nil {
		b.log.Error("event handler failed", "event", event.EventName(), "error", err)
	}
}
