package ports

import (
	"context"

	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Add and Update register the aggregate with the enclosing unit of work so its
// pending domain events are captured into the outbox on commit.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by id. A missing order is reported as
	// errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllWithStatus returns every order in the given status, oldest first.
	GetAllWithStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
