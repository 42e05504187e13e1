package commands

import (
	"context"
	"log/slog"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/ports"
)

// ChangeCourierStatusCommandHandler applies availability changes through the
// reservation guard, so they cannot interleave with a reservation, and keeps
// the availability marker in the cache in step.
//
// The loaded aggregate rejects the change first (courier.SetAvailability);
// the guard repeats the same rule as a conditional write.
type ChangeCourierStatusCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	cache      ports.LocationCache
	logger     *slog.Logger
}

func NewChangeCourierStatusCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	cache ports.LocationCache,
	logger *slog.Logger,
) ChangeCourierStatusCommandHandler {
	return ChangeCourierStatusCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger.With("component", "courier-status"),
	}
}

// Handle changes the courier's status. A courier on delivery is refused with
// courier.ErrCourierIsBusy.
func (h *ChangeCourierStatusCommandHandler) Handle(ctx context.Context, cmd ChangeCourierStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	c, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	previous := c.Status()
	if err = c.SetAvailability(cmd.Status()); err != nil {
		return err
	}

	if err = uow.ReservationGuard().SetAvailability(ctx, c.ID(), cmd.Status()); err != nil {
		return err
	}

	if cmd.Status() == courier.Available {
		err = h.cache.MarkAvailable(ctx, c.ID())
	} else {
		err = h.cache.ClearAvailable(ctx, c.ID())
	}
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update availability marker",
			"courier_id", c.ID().String(), "error", err)
	}

	h.logger.InfoContext(ctx, "courier status changed",
		"courier_id", c.ID().String(), "from", previous.String(), "to", c.Status().String())
	return nil
}
