package commands

import (
	"context"
	"log/slog"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/ports"
)

// UpdateCourierLocationCommandHandler records courier positions in the store
// and the location cache, and forwards them to the customer of the order the
// courier is carrying. A fix from an available courier also refreshes the
// availability marker, so couriers that stop reporting age out of the
// candidate list after ports.AvailabilityTTL.
type UpdateCourierLocationCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	cache      ports.LocationCache
	realtime   ports.RealtimeNotifier
	logger     *slog.Logger
}

func NewUpdateCourierLocationCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	cache ports.LocationCache,
	realtime ports.RealtimeNotifier,
	logger *slog.Logger,
) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		realtime:   realtime,
		logger:     logger.With("component", "courier-location"),
	}
}

// Handle stores the fix. A fix older than the stored one is dropped silently.
func (h *UpdateCourierLocationCommandHandler) Handle(ctx context.Context, cmd UpdateCourierLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriers := uow.CourierRepository()
	c, err := couriers.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	changed, err := c.UpdateLocation(cmd.Location())
	if err != nil {
		return err
	}
	if !changed {
		h.logger.DebugContext(ctx, "stale location ignored",
			"courier_id", c.ID().String(), "timestamp", cmd.Location().Timestamp())
		return nil
	}

	if err = couriers.UpdateLocation(ctx, c); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanOut(ctx, c, cmd.Location())
	return nil
}

func (h *UpdateCourierLocationCommandHandler) fanOut(ctx context.Context, c *courier.Courier, location courier.Location) {
	if err := h.cache.SetLocation(ctx, c.ID(), location); err != nil {
		h.logger.WarnContext(ctx, "failed to cache courier location",
			"courier_id", c.ID().String(), "error", err)
	}

	if c.IsAvailable() {
		if err := h.cache.MarkAvailable(ctx, c.ID()); err != nil {
			h.logger.WarnContext(ctx, "failed to refresh availability marker",
				"courier_id", c.ID().String(), "error", err)
		}
	}

	orderID := c.CurrentOrderID()
	if orderID == nil {
		return
	}

	update := ports.LocationUpdate{
		CourierID: c.ID(),
		OrderID:   *orderID,
		Latitude:  location.Coordinates().Latitude(),
		Longitude: location.Coordinates().Longitude(),
		Timestamp: location.Timestamp(),
	}
	err := h.realtime.SendToGroup(ctx, ports.OrderGroup(*orderID), ports.RealtimeDeliveryLocationUpdate, update)
	if err != nil {
		h.logger.WarnContext(ctx, "realtime location update not sent",
			"courier_id", c.ID().String(), "order_id", orderID.String(), "error", err)
	}
}
