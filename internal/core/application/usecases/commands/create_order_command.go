package commands

import (
	"errors"
	"strings"

	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrStreetIsRequired = errors.New("street is required")
)

// CreateOrderCommand represents a confirmed basket that must be delivered.
// The basket id becomes the order id, which makes repeated deliveries of the same
// basket confirmation harmless.
//
// Example:
//
//	basketID, _ := kernel.UUIDFromString(msg.BasketID)
//	cmd, err := NewCreateOrderCommand(basketID, "Tverskaya")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	basketID kernel.UUID
	street   string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
// Validates that the basket id is valid and the street is not blank.
func NewCreateOrderCommand(basketID kernel.UUID, street string) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setBasketID(basketID),
		orderCommand.setStreet(street),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) BasketID() kernel.UUID {
	return c.basketID
}

// Street returns the delivery destination street address.
func (c CreateOrderCommand) Street() string {
	return c.street
}

func (c *CreateOrderCommand) setBasketID(basketID kernel.UUID) error {
	if err := basketID.Validate(); err != nil {
		return err
	}

	c.basketID = basketID
	return nil
}

func (c *CreateOrderCommand) setStreet(street string) error {
	if strings.TrimSpace(street) == "" {
		return ErrStreetIsRequired
	}

	c.street = street
	return nil
}
