package commands

import (
	"context"
	"log/slog"

	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"
)

// CreateOrderCommandHandler stores a new Pending order and asks for a courier.
//
// The order and its first history entry are committed before anything is
// published. After the commit the handler emits OrderCreated, the assignment
// request and a NewOrder notice to the vendor's group. Publish failures are
// logged and not returned: the order is already placed and the requeue job
// picks it up later.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, producer, producer, producer, lifecycle, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	publisher  ports.AssignmentRequestPublisher
	events     ports.EventPublisher
	realtime   ports.RealtimeNotifier
	lifecycle  services.OrderLifecycle
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	publisher ports.AssignmentRequestPublisher,
	events ports.EventPublisher,
	realtime ports.RealtimeNotifier,
	lifecycle services.OrderLifecycle,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		events:     events,
		realtime:   realtime,
		lifecycle:  lifecycle,
		logger:     logger.With("component", "create-order"),
	}
}

// Handle processes the order creation command.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	vendor, err := uow.VendorRepository().Get(ctx, cmd.VendorID())
	if err != nil {
		return err
	}
	if !vendor.IsActive() {
		return errs.NewValueIsInvalidError("vendorId")
	}
	if !vendor.IsAcceptingOrders() {
		return errs.NewValueIsInvalidErrorWithCause("vendorId", merchant.ErrVendorNotAccepting)
	}

	placed, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.VendorID(),
		cmd.Items(),
		cmd.DeliveryAddress(),
		cmd.PlacedBy(),
		h.lifecycle.Now(),
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	logger := h.logger.With("order_id", placed.ID().String())
	created := ports.OrderCreated{
		OrderID:         placed.ID(),
		CustomerID:      placed.CustomerID(),
		VendorID:        placed.VendorID(),
		TotalAmount:     placed.TotalAmount(),
		DeliveryAddress: ports.NewAddressPayload(placed.DeliveryAddress()),
		ItemCount:       len(placed.Items()),
		CreatedAt:       placed.CreatedAt(),
	}
	if err = h.events.PublishOrderCreated(ctx, created); err != nil {
		logger.WarnContext(ctx, "order created event not published", "error", err)
	}

	request := assignmentRequestFor(placed, vendor.PickupPoint())
	if err = h.publisher.PublishAssignmentRequest(ctx, request); err != nil {
		logger.WarnContext(ctx, "assignment request not published, requeue job will retry", "error", err)
	}

	notice := ports.NewOrderNotice{
		OrderID:     placed.ID(),
		CustomerID:  placed.CustomerID(),
		TotalAmount: placed.TotalAmount(),
		ItemCount:   len(placed.Items()),
		CreatedAt:   placed.CreatedAt(),
	}
	if err = h.realtime.SendToGroup(ctx, ports.VendorGroup(vendor.ID()), ports.RealtimeNewOrder, notice); err != nil {
		logger.WarnContext(ctx, "new order notice not sent", "vendor_id", vendor.ID().String(), "error", err)
	}

	logger.InfoContext(ctx, "order placed", "vendor_id", vendor.ID().String(), "items", len(placed.Items()))
	return nil
}
