package courier

import (
	"errors"
	"strings"

	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/pkg/errs"
	"deliverydispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when a courier is created without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when a zero-value Courier is used.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")
	// ErrCourierIsNotFree is returned by SetBusy on a courier that is already Busy.
	ErrCourierIsNotFree = errors.New("courier is not free")
	// ErrCourierIsNotBusy is returned by SetFree on a courier that is already Free.
	ErrCourierIsNotBusy = errors.New("courier is not busy")
)

// Courier is the aggregate root for a person delivering orders on the grid.
//
// Business rules:
//   - A courier has a valid id, a non-empty name, a transport from the fixed table
//     and a location on the grid
//   - New couriers are Free; SetBusy and SetFree are the only status transitions
//     and a rejected transition leaves the courier untouched
//   - A movement tick advances the courier by at most transport speed steps and
//     never past the target
//
// Example usage:
//
//	location, _ := kernel.NewLocation(1, 1)
//	c, err := courier.NewCourier("Ivan", courier.Bicycle(), location)
//	if err != nil {
//	    return err
//	}
//	err = c.MoveTo(target) // up to two steps toward target
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// transport determines the courier's speed
	transport Transport
	// location is the current position on the delivery grid
	location kernel.Location
	// status tells whether the courier can take an order
	status Status
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier hires a Free courier with a freshly generated id.
//
// Parameters:
//   - name: non-empty display name
//   - transport: a value obtained from the transport table
//   - location: starting point on the grid
//
// Returns:
//   - *Courier: the created courier
//   - error: the joined validation errors of every invalid parameter
func NewCourier(name string, transport Transport, location kernel.Location) (*Courier, error) {
	return RestoreCourier(kernel.NewUUID(), name, transport, location, Free)
}

// RestoreCourier rebuilds a courier from persisted state. It applies the same
// validation as NewCourier and additionally validates the id and status.
func RestoreCourier(
	id kernel.UUID,
	name string,
	transport Transport,
	location kernel.Location,
	status Status,
) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setTransport(transport),
		c.setLocation(location),
		c.setStatus(status),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate reports whether the courier was built by a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	if c == nil || other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Transport() Transport {
	return c.transport
}

func (c *Courier) Location() kernel.Location {
	return c.location
}

func (c *Courier) Status() Status {
	return c.status
}

func (c *Courier) IsFree() bool {
	return c.status == Free
}

func (c *Courier) IsBusy() bool {
	return c.status == Busy
}

// SetBusy marks a Free courier as Busy.
//
// Returns:
//   - ErrCourierIsNotFree if the courier is already Busy; the status is unchanged
func (c *Courier) SetBusy() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.status != Free {
		return ErrCourierIsNotFree
	}

	c.status = Busy
	return nil
}

// SetFree marks a Busy courier as Free.
//
// Returns:
//   - ErrCourierIsNotBusy if the courier is already Free; the status is unchanged
func (c *Courier) SetFree() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.status != Busy {
		return ErrCourierIsNotBusy
	}

	c.status = Free
	return nil
}

// DistanceTicksTo estimates how many movement ticks the courier needs to reach
// target: the Manhattan distance divided by the transport speed, rounded down.
//
// Example:
//
//	// bicycle (speed 2) at (1,1), target at (4,5): distance 7
//	ticks, _ := c.DistanceTicksTo(target) // 3
func (c *Courier) DistanceTicksTo(target kernel.Location) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	distance, err := c.location.DistanceTo(target)
	if err != nil {
		return 0, err
	}

	return distance / c.transport.Speed(), nil
}

// MoveTo performs one movement tick toward target: up to transport speed single
// steps, stopping early once the target is reached. The result depends only on the
// starting location, the target and the speed.
//
// Returns:
//   - error if the courier or target is not constructed; the location is unchanged
func (c *Courier) MoveTo(target kernel.Location) error {
	if err := c.Validate(); err != nil {
		return err
	}

	current := c.location
	for range c.transport.Speed() {
		next, err := current.StepToward(target)
		if err != nil {
			return err
		}

		arrived, err := next.IsEqual(current)
		if err != nil {
			return err
		}
		if arrived {
			break
		}
		current = next
	}

	c.location = current
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setTransport(transport Transport) error {
	if err := transport.Validate(); err != nil {
		return err
	}
	c.transport = transport
	return nil
}

func (c *Courier) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

func (c *Courier) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}
