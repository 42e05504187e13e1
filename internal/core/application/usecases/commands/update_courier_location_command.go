package commands

import (
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var ErrUpdateCourierLocationCommandIsNotConstructed = errors.New(
	"UpdateCourierLocationCommand must be created via NewUpdateCourierLocationCommand constructor",
)

// UpdateCourierLocationCommand carries one position fix reported by a courier app.
type UpdateCourierLocationCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	location  courier.Location

	guard guard.ConstructorGuard
}

// NewUpdateCourierLocationCommand validates the fix. Speed is optional.
func NewUpdateCourierLocationCommand(
	courierID kernel.UUID,
	coordinates kernel.Coordinates,
	accuracy float64,
	speed *float64,
	timestamp time.Time,
) (UpdateCourierLocationCommand, error) {
	if err := courierID.Validate(); err != nil {
		return UpdateCourierLocationCommand{}, err
	}
	location, err := courier.NewLocation(coordinates, timestamp, accuracy, speed)
	if err != nil {
		return UpdateCourierLocationCommand{}, err
	}

	return UpdateCourierLocationCommand{
		courierID: courierID,
		location:  location,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierLocationCommandIsNotConstructed)
}

func (c UpdateCourierLocationCommand) CourierID() kernel.UUID     { return c.courierID }
func (c UpdateCourierLocationCommand) Location() courier.Location { return c.location }
