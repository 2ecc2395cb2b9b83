package commands

import (
	"errors"

	"deliverydispatch/internal/pkg/guard"
)

var ErrMoveCouriersCommandIsNotConstructed = errors.New(
	"MoveCouriersCommand must be created via NewMoveCouriersCommand constructor",
)

// MoveCouriersCommand advances every busy courier by one movement tick.
//
// Example:
//
//	cmd := NewMoveCouriersCommand()
//	handler := NewMoveCouriersCommandHandler(uowFactory, metrics)
//	changed, err := handler.Handle(ctx, cmd)
type MoveCouriersCommand struct {
	guard guard.ConstructorGuard
}

// NewMoveCouriersCommand creates a new command to trigger courier movement.
func NewMoveCouriersCommand() MoveCouriersCommand {
	return MoveCouriersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrMoveCouriersCommandIsNotConstructed if validation fails.
func (c MoveCouriersCommand) Validate() error {
	return c.guard.Validate(ErrMoveCouriersCommandIsNotConstructed)
}
