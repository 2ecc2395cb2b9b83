package commands

import (
	"errors"

	"deliverydispatch/internal/pkg/guard"
)

var ErrAssignOrdersCommandIsNotConstructed = errors.New(
	"AssignOrdersCommand must be created via NewAssignOrdersCommand constructor",
)

// AssignOrdersCommand triggers one dispatch run over every order waiting for a courier.
type AssignOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewAssignOrdersCommand() AssignOrdersCommand {
	return AssignOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c AssignOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrdersCommandIsNotConstructed)
}
