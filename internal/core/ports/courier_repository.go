// Package ports defines the contracts between the dispatch core and its adapters:
// persistence, the unit of work, and the external services the workflows call.
package ports

import (
	"context"

	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
// Add and Update register the aggregate with the enclosing unit of work.
type CourierRepository interface {
	// Add persists a new courier aggregate.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by id. A missing courier is reported as
	// errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllWithStatus returns every courier in the given status, oldest first.
	// The load order is the tie-breaking order used when scoring couriers.
	GetAllWithStatus(ctx context.Context, status courier.Status) ([]*courier.Courier, error)
}
