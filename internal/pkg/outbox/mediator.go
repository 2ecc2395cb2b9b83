package outbox

import (
	"context"
	"fmt"
	"sync"

	"deliverydispatch/internal/pkg/ddd"
)

// Handler reacts to a delivered domain event. Delivery is at least once, so
// handlers must tolerate seeing the same event more than once.
type Handler interface {
	Handle(ctx context.Context, event ddd.DomainEvent) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, event ddd.DomainEvent) error

func (f HandlerFunc) Handle(ctx context.Context, event ddd.DomainEvent) error {
	return f(ctx, event)
}

// Mediator dispatches events to the handlers subscribed to their type.
type Mediator struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewMediator() *Mediator {
	return &Mediator{handlers: make(map[string][]Handler)}
}

// Subscribe adds h to the handlers of eventType. Handlers run in subscription order.
func (m *Mediator) Subscribe(eventType string, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[eventType] = append(m.handlers[eventType], h)
}

// Publish calls every handler of the event type and stops at the first failure.
// An event nobody subscribed to counts as delivered.
func (m *Mediator) Publish(ctx context.Context, event ddd.DomainEvent) error {
	m.mu.RLock()
	handlers := append([]Handler(nil), m.handlers[event.EventType()]...)
	m.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			return fmt.Errorf("handle %s event %s: %w", event.EventType(), event.EventID(), err)
		}
	}
	return nil
}
