package order

import (
	"time"

	"github.com/google/uuid"
)

// CompletedDomainEventType tags CompletedDomainEvent in the outbox.
const CompletedDomainEventType = "order.completed"

// CompletedDomainEvent is raised when an order is delivered. It carries a snapshot of
// the order so handlers never have to reload the aggregate.
type CompletedDomainEvent struct {
	ID          uuid.UUID `json:"eventId"`
	OrderID     uuid.UUID `json:"orderId"`
	CourierID   uuid.UUID `json:"courierId"`
	LocationX   int       `json:"locationX"`
	LocationY   int       `json:"locationY"`
	OrderStatus string    `json:"orderStatus"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func newCompletedDomainEvent(o *Order, occurredAt time.Time) *CompletedDomainEvent {
	e := &CompletedDomainEvent{
		ID:          uuid.New(),
		OrderID:     o.id.Value(),
		LocationX:   int(o.location.X()),
		LocationY:   int(o.location.Y()),
		OrderStatus: o.status.String(),
		OccurredAt:  occurredAt,
	}
	if o.courierID != nil {
		e.CourierID = o.courierID.Value()
	}
	return e
}

func (e *CompletedDomainEvent) EventID() uuid.UUID {
	return e.ID
}

func (e *CompletedDomainEvent) EventType() string {
	return CompletedDomainEventType
}
