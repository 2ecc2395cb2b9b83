package commands

import (
	"context"

	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/kernel"
)

// CreateCourierCommandHandler handles the business logic for courier creation.
type CreateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewCreateCourierCommandHandler creates a handler for courier creation operations.
// Requires a CourierUoWFactory for transactional persistence.
func NewCreateCourierCommandHandler(uowFactory CourierUoWFactory) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle places a new Free courier at a random location and returns its id.
func (h CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	location, err := kernel.NewRandomLocation()
	if err != nil {
		return kernel.UUID{}, err
	}

	newCourier, err := courier.NewCourier(cmd.Name(), cmd.Transport(), location)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Add(ctx, newCourier); err != nil {
		return kernel.UUID{}, err
	}

	if _, err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return newCourier.ID(), nil
}
