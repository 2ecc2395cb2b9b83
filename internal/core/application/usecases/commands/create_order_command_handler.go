package commands

import (
	"context"
	"errors"
	"fmt"

	"deliverydispatch/internal/core/domain/model/order"
	"deliverydispatch/internal/core/ports"
	"deliverydispatch/internal/pkg/errs"
)

// CreateOrderCommandHandler registers an order for a confirmed basket.
// The delivery location comes from the geo service through the LocationResolver.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, geoClient)
//	cmd, _ := NewCreateOrderCommand(basketID, "Tverskaya")
//	created, err := handler.Handle(ctx, cmd)
//	// created is false when the basket already has an order
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	resolver   ports.LocationResolver
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, resolver ports.LocationResolver) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
	}
}

// Handle resolves the street and stores a Created order. A basket that already has
// an order is left alone and Handle returns false.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	_, err := orderRepo.Get(ctx, cmd.BasketID())
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return false, err
	}

	location, err := h.resolver.Resolve(ctx, cmd.Street())
	if err != nil {
		return false, fmt.Errorf("resolve street %q: %w", cmd.Street(), err)
	}

	newOrder, err := order.NewOrder(cmd.BasketID(), location)
	if err != nil {
		return false, err
	}

	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return false, err
	}

	return uow.Commit(ctx)
}
