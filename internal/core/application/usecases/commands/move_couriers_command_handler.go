package commands

import (
	"context"
	"errors"
	"fmt"

	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/order"
	"deliverydispatch/internal/core/ports"
)

// ErrAssignedCourierNotFound is returned when an Assigned order points at a courier
// that is not among the Busy couriers. The data is inconsistent and the run aborts.
var ErrAssignedCourierNotFound = errors.New("assigned courier not found among busy couriers")

// MoveCouriersCommandHandler orchestrates one movement tick.
// Each courier carrying an order moves toward its order; on arrival the order is
// completed and the courier becomes Free again. All updates occur within a single
// transaction together with the outbox rows of the completed orders.
type MoveCouriersCommandHandler struct {
	uowFactory UoWFactory
	metrics    ports.DispatchMetrics
}

// NewMoveCouriersCommandHandler creates a handler for courier movement operations.
// metrics may be nil.
func NewMoveCouriersCommandHandler(uowFactory UoWFactory, metrics ports.DispatchMetrics) MoveCouriersCommandHandler {
	if metrics == nil {
		metrics = noopDispatchMetrics{}
	}
	return MoveCouriersCommandHandler{
		uowFactory: uowFactory,
		metrics:    metrics,
	}
}

// Handle processes the courier movement command and reports whether anything was
// committed.
func (h MoveCouriersCommandHandler) Handle(ctx context.Context, cmd MoveCouriersCommand) (bool, error) {
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

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()

	orders, err := orderRepo.GetAllWithStatus(ctx, order.Assigned)
	if err != nil {
		return false, fmt.Errorf("load assigned orders: %w", err)
	}
	if len(orders) == 0 {
		return false, nil
	}

	couriers, err := courierRepo.GetAllWithStatus(ctx, courier.Busy)
	if err != nil {
		return false, fmt.Errorf("load busy couriers: %w", err)
	}

	busy := make(map[string]*courier.Courier, len(couriers))
	for _, c := range couriers {
		busy[c.ID().String()] = c
	}

	completed := 0
	for _, o := range orders {
		if err = ctx.Err(); err != nil {
			return false, err
		}

		courierID := o.CourierID()
		if courierID == nil {
			return false, fmt.Errorf("order %s has no courier: %w", o.ID(), ErrAssignedCourierNotFound)
		}

		c, ok := busy[courierID.String()]
		if !ok {
			return false, fmt.Errorf("order %s, courier %s: %w", o.ID(), courierID, ErrAssignedCourierNotFound)
		}

		arrived, moveErr := moveCourier(o, c)
		if moveErr != nil {
			return false, moveErr
		}

		if arrived {
			if err = orderRepo.Update(ctx, o); err != nil {
				return false, err
			}
			completed++
		}

		if err = courierRepo.Update(ctx, c); err != nil {
			return false, err
		}
	}

	changed, err := uow.Commit(ctx)
	if err != nil {
		return false, err
	}

	h.metrics.OrdersCompleted(completed)
	return changed, nil
}

// moveCourier moves c one tick toward o and, on arrival, completes the order and
// frees the courier.
func moveCourier(o *order.Order, c *courier.Courier) (bool, error) {
	if err := c.MoveTo(o.Location()); err != nil {
		return false, fmt.Errorf("move courier %s: %w", c.ID(), err)
	}

	distance, err := c.Location().DistanceTo(o.Location())
	if err != nil {
		return false, err
	}
	if distance != 0 {
		return false, nil
	}

	if err = o.Complete(); err != nil {
		return false, fmt.Errorf("complete order %s: %w", o.ID(), err)
	}
	if err = c.SetFree(); err != nil {
		return false, fmt.Errorf("free courier %s: %w", c.ID(), err)
	}

	return true, nil
}
