package ports

import (
	"context"

	"github.com/google/uuid"
)

// IdempotencyStore remembers which domain events a handler has already delivered.
// The outbox delivers at least once; handlers consult the store to drop repeats.
type IdempotencyStore interface {
	IsProcessed(ctx context.Context, eventID uuid.UUID) (bool, error)
	MarkProcessed(ctx context.Context, eventID uuid.UUID) error
}
