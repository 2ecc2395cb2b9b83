package commands

import (
	"errors"
	"strings"

	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/pkg/guard"
)

var (
	ErrCreateCourierCommandIsNotConstructed = errors.New(
		"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
	)
	ErrNameIsRequired = errors.New("name is required")
)

// CreateCourierCommand represents a request to hire a courier. The courier starts
// Free at a random grid location.
//
// Example:
//
//	cmd, err := NewCreateCourierCommand("John Doe", "bicycle")
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
//	id, err := handler.Handle(ctx, cmd)
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	name      string
	transport courier.Transport

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand validates the name and resolves the transport by name.
func NewCreateCourierCommand(name string, transportName string) (CreateCourierCommand, error) {
	command := CreateCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setName(name),
		command.setTransport(transportName),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateCourierCommandIsNotConstructed if validation fails.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

func (c CreateCourierCommand) Name() string {
	return c.name
}

func (c CreateCourierCommand) Transport() courier.Transport {
	return c.transport
}

func (c *CreateCourierCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateCourierCommand) setTransport(transportName string) error {
	transport, err := courier.TransportByName(transportName)
	if err != nil {
		return err
	}

	c.transport = transport
	return nil
}
