// Package ddd provides the building blocks aggregates share for raising domain
// events that the unit of work later drains into the outbox.
package ddd

import "github.com/google/uuid"

// DomainEvent is a fact raised by an aggregate. EventID doubles as the outbox message
// id, so it must be unique and stable for the lifetime of the event.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
}

// AggregateRoot is implemented by every aggregate whose events must reach the outbox.
type AggregateRoot interface {
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregate keeps the append-only buffer of events raised since the last commit.
// Embed it by value in aggregate structs. Aggregates are owned by a single unit of
// work, so the buffer is not guarded.
type BaseAggregate struct {
	events []DomainEvent
}

func (a *BaseAggregate) RaiseDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// GetDomainEvents returns a copy of the pending events in the order they were raised.
func (a *BaseAggregate) GetDomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(a.events))
	copy(out, a.events)
	return out
}

func (a *BaseAggregate) ClearDomainEvents() {
	a.events = nil
}
