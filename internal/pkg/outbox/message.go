// Package outbox implements the delivery side of the transactional outbox: the
// message row written next to aggregate state, the registry that turns rows back
// into domain events, the mediator that fans events out to handlers and the
// processor that polls unprocessed rows.
package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deliverydispatch/internal/pkg/ddd"

	"github.com/google/uuid"
)

var ErrEventIsRequired = errors.New("event is required")

// Message is a serialized domain event waiting for delivery. ProcessedAt stays nil
// until a processor has dispatched it to every subscribed handler.
type Message struct {
	ID          uuid.UUID
	Type        string
	Payload     string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// NewMessage serializes event. The message id is the event id, so capturing the same
// event twice is rejected by the primary key instead of producing a duplicate.
func NewMessage(event ddd.DomainEvent, now time.Time) (Message, error) {
	if event == nil {
		return Message{}, ErrEventIsRequired
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s event: %w", event.EventType(), err)
	}

	return Message{
		ID:        event.EventID(),
		Type:      event.EventType(),
		Payload:   string(payload),
		CreatedAt: now.UTC(),
	}, nil
}

// IsProcessed reports whether the message has already been delivered.
func (m Message) IsProcessed() bool {
	return m.ProcessedAt != nil
}
