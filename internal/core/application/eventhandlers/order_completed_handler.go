// Package eventhandlers reacts to domain events delivered by the outbox processor.
package eventhandlers

import (
	"context"
	"errors"
	"fmt"

	"deliverydispatch/internal/core/domain/model/order"
	"deliverydispatch/internal/core/ports"
	"deliverydispatch/internal/pkg/ddd"
)

var (
	ErrPublisherIsRequired = errors.New("event publisher is required")
	ErrUnexpectedEvent     = errors.New("unexpected domain event")
)

// OrderCompletedHandler publishes completed orders to downstream consumers. Events
// already recorded in the idempotency store are skipped, so a redelivered outbox
// message does not reach the broker twice.
type OrderCompletedHandler struct {
	publisher ports.EventPublisher
	store     ports.IdempotencyStore
}

// NewOrderCompletedHandler creates the handler. store may be nil, in which case
// every delivery is published.
func NewOrderCompletedHandler(publisher ports.EventPublisher, store ports.IdempotencyStore) (*OrderCompletedHandler, error) {
	if publisher == nil {
		return nil, ErrPublisherIsRequired
	}
	return &OrderCompletedHandler{
		publisher: publisher,
		store:     store,
	}, nil
}

func (h *OrderCompletedHandler) Handle(ctx context.Context, event ddd.DomainEvent) error {
	completed, ok := event.(*order.CompletedDomainEvent)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedEvent, event)
	}

	if h.store != nil {
		processed, err := h.store.IsProcessed(ctx, completed.EventID())
		if err != nil {
			return fmt.Errorf("check event %s: %w", completed.EventID(), err)
		}
		if processed {
			return nil
		}
	}

	if err := h.publisher.Publish(ctx, completed); err != nil {
		return fmt.Errorf("publish order %s completion: %w", completed.OrderID, err)
	}

	if h.store != nil {
		if err := h.store.MarkProcessed(ctx, completed.EventID()); err != nil {
			return fmt.Errorf("remember event %s: %w", completed.EventID(), err)
		}
	}
	return nil
}
