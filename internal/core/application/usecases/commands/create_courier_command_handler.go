package commands

import (
	"context"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/ports"
)

// CreateCourierCommandHandler registers couriers. A single insert needs no
// transaction, so the repository runs on its own connection.
type CreateCourierCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewCreateCourierCommandHandler(uowFactory ports.UnitOfWorkFactory) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{uowFactory: uowFactory}
}

func (h *CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	c, err := courier.NewCourier(cmd.CourierID(), cmd.Name())
	if err != nil {
		return err
	}
	return h.uowFactory.Create().CourierRepository().Add(ctx, c)
}
