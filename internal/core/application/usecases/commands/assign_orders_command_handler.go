package commands

import (
	"context"
	"errors"
	"fmt"

	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/order"
	"deliverydispatch/internal/core/domain/services"
	"deliverydispatch/internal/core/ports"
)

// AssignOrdersCommandHandler pairs every Created order with the closest Free courier
// in a single transaction.
//
// Orders are visited oldest first. A courier picked for one order leaves the pool, so
// no courier receives two orders in the same run. An order for which no Free courier
// remains is skipped and stays Created for the next run; any other failure aborts the
// whole run and nothing is written.
//
// Example:
//
//	handler := NewAssignOrdersCommandHandler(uowFactory, metrics)
//	changed, err := handler.Handle(ctx, NewAssignOrdersCommand())
type AssignOrdersCommandHandler struct {
	uowFactory UoWFactory
	scoring    services.CourierScoringService
	metrics    ports.DispatchMetrics
}

// NewAssignOrdersCommandHandler creates the dispatch handler. metrics may be nil.
func NewAssignOrdersCommandHandler(uowFactory UoWFactory, metrics ports.DispatchMetrics) AssignOrdersCommandHandler {
	if metrics == nil {
		metrics = noopDispatchMetrics{}
	}
	return AssignOrdersCommandHandler{
		uowFactory: uowFactory,
		scoring:    services.NewCourierScoringService(),
		metrics:    metrics,
	}
}

// Handle runs one dispatch pass and reports whether anything was committed.
func (h AssignOrdersCommandHandler) Handle(ctx context.Context, command AssignOrdersCommand) (bool, error) {
	if err := command.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()

	orders, err := orderRepo.GetAllWithStatus(ctx, order.Created)
	if err != nil {
		return false, fmt.Errorf("load created orders: %w", err)
	}
	if len(orders) == 0 {
		return false, nil
	}

	pool, err := courierRepo.GetAllWithStatus(ctx, courier.Free)
	if err != nil {
		return false, fmt.Errorf("load free couriers: %w", err)
	}
	if len(pool) == 0 {
		return false, nil
	}

	assigned := 0
	for _, o := range orders {
		if err = ctx.Err(); err != nil {
			return false, err
		}
		if len(pool) == 0 {
			break
		}

		c, scoreErr := h.scoring.FindClosestAvailableCourier(o, pool)
		if errors.Is(scoreErr, services.ErrNoCourierFound) {
			continue
		}
		if scoreErr != nil {
			return false, fmt.Errorf("score couriers for order %s: %w", o.ID(), scoreErr)
		}

		if err = assignOrder(ctx, orderRepo, courierRepo, o, c); err != nil {
			return false, err
		}

		pool = withoutCourier(pool, c)
		assigned++
	}

	if assigned == 0 {
		return false, nil
	}

	changed, err := uow.Commit(ctx)
	if err != nil {
		return false, err
	}

	h.metrics.OrdersAssigned(assigned)
	return changed, nil
}

// assignOrder calls Order.Assign before Courier.SetBusy: the order rejects couriers
// that are already Busy.
func assignOrder(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	courierRepo ports.CourierRepository,
	o *order.Order,
	c *courier.Courier,
) error {
	if err := o.Assign(c); err != nil {
		return fmt.Errorf("assign order %s: %w", o.ID(), err)
	}
	if err := c.SetBusy(); err != nil {
		return fmt.Errorf("mark courier %s busy: %w", c.ID(), err)
	}
	if err := orderRepo.Update(ctx, o); err != nil {
		return err
	}
	return courierRepo.Update(ctx, c)
}

func withoutCourier(pool []*courier.Courier, c *courier.Courier) []*courier.Courier {
	out := make([]*courier.Courier, 0, len(pool))
	for _, candidate := range pool {
		if !candidate.IsEqual(c) {
			out = append(out, candidate)
		}
	}
	return out
}
