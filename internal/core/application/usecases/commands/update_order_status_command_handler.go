package commands

import (
	"context"
	"log/slog"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports"
)

// UpdateOrderStatusCommandHandler applies lifecycle transitions requested from
// outside the engine.
//
// When the order reaches Delivered or Cancelled while holding a courier, the
// courier is released through the reservation guard in the same transaction
// as the order update. Events and realtime updates go out after the commit;
// their failures are logged only.
//
// Example:
//
//	cmd, _ := NewUpdateOrderStatusCommand(orderID, order.Delivered, "courier-42", "left at door")
//	updated, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrInvalidTransition) {
//	    // Reject the request
//	}
type UpdateOrderStatusCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	cache      ports.LocationCache
	events     ports.EventPublisher
	realtime   ports.RealtimeNotifier
	lifecycle  services.OrderLifecycle
	logger     *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	cache ports.LocationCache,
	events ports.EventPublisher,
	realtime ports.RealtimeNotifier,
	lifecycle services.OrderLifecycle,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		events:     events,
		realtime:   realtime,
		lifecycle:  lifecycle,
		logger:     logger.With("component", "order-status"),
	}
}

// Handle validates and applies the transition and returns the order as stored.
// Re-applying the current status succeeds without writing anything.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	logger := h.logger.With("order_id", cmd.OrderID().String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	changed, err := h.lifecycle.Transition(o, cmd.NewStatus(), cmd.UpdatedBy(), cmd.Notes())
	if err != nil {
		return nil, err
	}
	if !changed {
		logger.InfoContext(ctx, "order already in requested status", "status", o.Status().String())
		return o, nil
	}

	if err = orders.Update(ctx, o); err != nil {
		return nil, err
	}

	released := h.lifecycle.CourierToRelease(o)
	if released != nil {
		if err = uow.ReservationGuard().Release(ctx, *released, o.ID()); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "order status updated",
		"status", o.Status().String(), "updated_by", cmd.UpdatedBy())
	h.notify(ctx, o, released)
	return o, nil
}

func (h *UpdateOrderStatusCommandHandler) notify(ctx context.Context, o *order.Order, released *kernel.UUID) {
	if released != nil {
		if err := h.cache.MarkAvailable(ctx, *released); err != nil {
			h.logger.WarnContext(ctx, "failed to mark courier available in cache",
				"courier_id", released.String(), "error", err)
		}
	}

	last := o.History()[len(o.History())-1]
	event := ports.OrderUpdated{
		OrderID:    o.ID(),
		CustomerID: o.CustomerID(),
		CourierID:  o.CourierID(),
		Status:     o.Status().String(),
		UpdatedBy:  last.UpdatedBy,
		Notes:      last.Notes,
		Timestamp:  last.Timestamp,
	}
	if err := h.events.PublishOrderUpdated(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "order updated event not published",
			"order_id", o.ID().String(), "error", err)
	}

	update := ports.StatusUpdate{
		OrderID:   o.ID(),
		Status:    o.Status().String(),
		Timestamp: last.Timestamp,
	}
	if err := h.realtime.SendToGroup(ctx, ports.OrderGroup(o.ID()), ports.RealtimeOrderStatusUpdated, update); err != nil {
		h.logger.WarnContext(ctx, "realtime status update not sent",
			"order_id", o.ID().String(), "error", err)
	}
}
