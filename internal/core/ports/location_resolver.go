package ports

import (
	"context"

	"deliverydispatch/internal/core/domain/model/kernel"
)

// LocationResolver turns a street address into a point on the delivery grid.
type LocationResolver interface {
	Resolve(ctx context.Context, street string) (kernel.Location, error)
}
