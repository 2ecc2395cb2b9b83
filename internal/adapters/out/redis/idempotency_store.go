package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultProcessedTTL is how long a delivered event id is remembered. It only has
// to outlive the redelivery window of the outbox.
const DefaultProcessedTTL = 24 * time.Hour

// IdempotencyStore implements ports.IdempotencyStore.
// Key format: outbox:processed:<event_id>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultProcessedTTL
	}
	return &IdempotencyStore{
		client: client,
		ttl:    ttl,
	}
}

// IsProcessed reports whether eventID has already been delivered.
func (s *IdempotencyStore) IsProcessed(ctx context.Context, eventID uuid.UUID) (bool, error) {
	n, err := s.client.Exists(ctx, key(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency check: %w", err)
	}
	return n > 0, nil
}

// MarkProcessed records eventID as delivered.
func (s *IdempotencyStore) MarkProcessed(ctx context.Context, eventID uuid.UUID) error {
	if err := s.client.Set(ctx, key(eventID), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency mark: %w", err)
	}
	return nil
}

func key(eventID uuid.UUID) string {
	return "outbox:processed:" + eventID.String()
}
