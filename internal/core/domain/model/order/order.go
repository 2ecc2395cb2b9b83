package order

import (
	"errors"
	"time"

	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/pkg/ddd"
	"deliverydispatch/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
	// ErrCourierIsRequired is returned by Assign without a courier.
	ErrCourierIsRequired = errors.New("courier is required")
	// ErrCantAssignCompletedOrder is returned by Assign on a delivered order.
	ErrCantAssignCompletedOrder = errors.New("can't assign completed order")
	// ErrOrderAlreadyAssigned is returned by Assign when a courier is already on the way.
	ErrOrderAlreadyAssigned = errors.New("order is already assigned")
	// ErrCantAssignOrderToBusyCourier is returned by Assign for a courier that is not Free.
	ErrCantAssignOrderToBusyCourier = errors.New("can't assign order to busy courier")
	// ErrCantCompleteNotAssignedOrder is returned by Complete unless the order is Assigned.
	ErrCantCompleteNotAssignedOrder = errors.New("can't complete order that is not assigned")
)

// Order is the aggregate root for a delivery request. Its id is the id of the basket
// it was created from.
//
// Order follows these invariants:
//   - The id and the delivery location never change after creation
//   - Status only moves forward: Created, then Assigned, then Completed
//   - The courier id is set exactly once, by Assign
//   - Completing the order raises a CompletedDomainEvent
type Order struct {
	ddd.BaseAggregate

	// id is the unique identifier for the order
	id kernel.UUID

	// courierID is the assigned courier's ID (nil until assigned)
	courierID *kernel.UUID

	// location is the delivery destination
	location kernel.Location

	// status represents the current state in the order lifecycle
	status Status

	guard guard.ConstructorGuard
}

// NewOrder creates an order in Created status without a courier.
//
// Parameters:
//   - id: the basket id the order is created for
//   - location: delivery destination on the grid
//
// Returns:
//   - *Order: the created order
//   - error: joined validation errors for an invalid id or location
func NewOrder(id kernel.UUID, location kernel.Location) (*Order, error) {
	return RestoreOrder(id, location, Created, nil)
}

// RestoreOrder rebuilds an order from persisted state. The courier id must be present
// exactly when the status is Assigned or Completed.
func RestoreOrder(id kernel.UUID, location kernel.Location, status Status, courierID *kernel.UUID) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setLocation(location),
		o.setStatus(status, courierID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate reports whether the order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	if o == nil || other == nil {
		return false
	}
	return o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Location() kernel.Location {
	return o.location
}

func (o *Order) Status() Status {
	return o.status
}

// CourierID returns the assigned courier's id, or nil while the order is Created.
func (o *Order) CourierID() *kernel.UUID {
	if o.courierID == nil {
		return nil
	}
	id := *o.courierID
	return &id
}

// Assign hands the order to a courier and moves it to Assigned.
//
// Guards are checked in this order and the first failure is returned with the
// order left unchanged:
//   - ErrCourierIsRequired: c is nil or not constructed
//   - ErrCantAssignCompletedOrder: the order was already delivered
//   - ErrOrderAlreadyAssigned: another courier is on the way
//   - ErrCantAssignOrderToBusyCourier: c is not Free
//
// Assign does not change the courier. Callers mark it Busy afterwards.
func (o *Order) Assign(c *courier.Courier) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if c == nil || c.Validate() != nil {
		return ErrCourierIsRequired
	}

	switch o.status {
	case Completed:
		return ErrCantAssignCompletedOrder
	case Assigned:
		return ErrOrderAlreadyAssigned
	case Created, Unknown:
	}

	if c.IsBusy() {
		return ErrCantAssignOrderToBusyCourier
	}

	courierID := c.ID()
	o.courierID = &courierID
	o.status = Assigned
	return nil
}

// Complete marks an Assigned order delivered and raises a CompletedDomainEvent.
//
// Returns:
//   - ErrCantCompleteNotAssignedOrder for Created and Completed orders
func (o *Order) Complete() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != Assigned {
		return ErrCantCompleteNotAssignedOrder
	}

	o.status = Completed
	o.RaiseDomainEvent(newCompletedDomainEvent(o, time.Now().UTC()))
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.location = location
	return nil
}

func (o *Order) setStatus(status Status, courierID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return err
		}
		id := *courierID
		o.courierID = &id
	}
	o.status = status
	return nil
}
