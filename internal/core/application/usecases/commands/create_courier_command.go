package commands

import (
	"errors"
	"strings"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

var (
	ErrCreateCourierCommandIsNotConstructed = errors.New(
		"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
	)

	// ErrNameIsRequired is shared by every registration command.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// CreateCourierCommand registers a courier. New couriers start Offline and
// become assignable once the courier app reports Available.
//
// Example:
//
//	cmd, err := NewCreateCourierCommand("John Doe")
//	if err != nil {
//	    return c.JSON(http.StatusBadRequest, err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
//	return c.JSON(http.StatusCreated, cmd.CourierID())
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand trims name and generates the courier id.
func NewCreateCourierCommand(name string) (CreateCourierCommand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CreateCourierCommand{}, ErrNameIsRequired
	}

	return CreateCourierCommand{
		courierID: kernel.NewUUID(),
		name:      name,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

func (c CreateCourierCommand) CourierID() kernel.UUID { return c.courierID }
func (c CreateCourierCommand) Name() string           { return c.name }
