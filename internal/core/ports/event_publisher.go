package ports

import (
	"context"

	"deliverydispatch/internal/core/domain/model/order"
)

// EventPublisher sends integration events to consumers outside the service.
type EventPublisher interface {
	Publish(ctx context.Context, event *order.CompletedDomainEvent) error
}
