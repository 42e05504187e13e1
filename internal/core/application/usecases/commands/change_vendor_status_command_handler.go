package commands

import (
	"context"
	"log/slog"

	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports"
)

// ChangeVendorStatusCommandHandler stores a vendor status change, publishes
// VendorStatusChanged and notifies the admin dashboards. Setting the current
// status again writes and publishes nothing.
type ChangeVendorStatusCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	events     ports.EventPublisher
	realtime   ports.RealtimeNotifier
	lifecycle  services.OrderLifecycle
	logger     *slog.Logger
}

func NewChangeVendorStatusCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	events ports.EventPublisher,
	realtime ports.RealtimeNotifier,
	lifecycle services.OrderLifecycle,
	logger *slog.Logger,
) ChangeVendorStatusCommandHandler {
	return ChangeVendorStatusCommandHandler{
		uowFactory: uowFactory,
		events:     events,
		realtime:   realtime,
		lifecycle:  lifecycle,
		logger:     logger.With("component", "vendor-status"),
	}
}

// Handle returns the vendor as stored after the change.
func (h *ChangeVendorStatusCommandHandler) Handle(ctx context.Context, cmd ChangeVendorStatusCommand) (*merchant.Vendor, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	vendors := h.uowFactory.Create().VendorRepository()
	v, err := vendors.Get(ctx, cmd.VendorID())
	if err != nil {
		return nil, err
	}

	previous, changed, err := v.ChangeStatus(cmd.Status())
	if err != nil {
		return nil, err
	}
	if !changed {
		return v, nil
	}
	if err = vendors.UpdateStatus(ctx, v); err != nil {
		return nil, err
	}

	logger := h.logger.With("vendor_id", v.ID().String())
	logger.InfoContext(ctx, "vendor status changed", "from", previous.String(), "to", v.Status().String())

	event := ports.VendorStatusChanged{
		VendorID:   v.ID(),
		VendorName: v.Name(),
		OldStatus:  previous.String(),
		NewStatus:  v.Status().String(),
		Timestamp:  h.lifecycle.Now(),
	}
	if err = h.events.PublishVendorStatusChanged(ctx, event); err != nil {
		logger.WarnContext(ctx, "vendor status event not published", "error", err)
	}

	notice := ports.VendorStatusNotice{VendorID: v.ID(), VendorName: v.Name(), Status: v.Status().String()}
	if err = h.realtime.SendToGroup(ctx, ports.AdminGroup, ports.RealtimeVendorStatusChanged, notice); err != nil {
		logger.WarnContext(ctx, "vendor status notice not sent", "error", err)
	}

	return v, nil
}
