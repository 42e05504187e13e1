package commands

import (
	"errors"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var ErrChangeCourierStatusCommandIsNotConstructed = errors.New(
	"ChangeCourierStatusCommand must be created via NewChangeCourierStatusCommand constructor",
)

// ChangeCourierStatusCommand is a courier going on or off shift, or taking a break.
type ChangeCourierStatusCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	status    courier.Status

	guard guard.ConstructorGuard
}

// NewChangeCourierStatusCommand rejects Busy, which only assignment may set.
func NewChangeCourierStatusCommand(courierID kernel.UUID, status courier.Status) (ChangeCourierStatusCommand, error) {
	if err := errors.Join(courierID.Validate(), status.Validate()); err != nil {
		return ChangeCourierStatusCommand{}, err
	}
	if status == courier.Busy {
		return ChangeCourierStatusCommand{}, courier.ErrBusyIsNotSettable
	}

	return ChangeCourierStatusCommand{
		courierID: courierID,
		status:    status,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeCourierStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeCourierStatusCommandIsNotConstructed)
}

func (c ChangeCourierStatusCommand) CourierID() kernel.UUID { return c.courierID }
func (c ChangeCourierStatusCommand) Status() courier.Status { return c.status }
