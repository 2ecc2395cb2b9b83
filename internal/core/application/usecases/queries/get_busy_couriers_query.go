package queries

import (
	"errors"

	"deliverydispatch/internal/pkg/guard"
)

var (
	ErrGetBusyCouriersQueryIsNotConstructed = errors.New(
		"GetBusyCouriersQuery must be created via NewGetBusyCouriersQuery constructor",
	)
)

// GetBusyCouriersQuery retrieves the couriers currently delivering an order.
type GetBusyCouriersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetBusyCouriersQuery() GetBusyCouriersQuery {
	return GetBusyCouriersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetBusyCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetBusyCouriersQueryIsNotConstructed)
}
