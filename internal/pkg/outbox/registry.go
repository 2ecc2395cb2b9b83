package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"deliverydispatch/internal/pkg/ddd"
)

var ErrUnknownMessageType = errors.New("unknown outbox message type")

// DecodeFunc rebuilds a domain event from a stored payload.
type DecodeFunc func(payload []byte) (ddd.DomainEvent, error)

// Registry maps message type tags to decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]DecodeFunc
}

func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]DecodeFunc)}
}

// Register binds eventType to decode, replacing any previous decoder.
func (r *Registry) Register(eventType string, decode DecodeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.decoders[eventType] = decode
}

// RegisterJSON registers a decoder that unmarshals the payload into a new *T.
func RegisterJSON[T any, PT interface {
	*T
	ddd.DomainEvent
}](r *Registry, eventType string) {
	r.Register(eventType, func(payload []byte) (ddd.DomainEvent, error) {
		event := PT(new(T))
		if err := json.Unmarshal(payload, event); err != nil {
			return nil, err
		}
		return event, nil
	})
}

// Decode returns the domain event stored in msg.
func (r *Registry) Decode(msg Message) (ddd.DomainEvent, error) {
	r.mu.RLock()
	decode, ok := r.decoders[msg.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}

	event, err := decode([]byte(msg.Payload))
	if err != nil {
		return nil, fmt.Errorf("decode %s message %s: %w", msg.Type, msg.ID, err)
	}
	return event, nil
}
