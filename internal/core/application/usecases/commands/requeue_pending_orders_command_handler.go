package commands

import (
	"context"
	"errors"
	"log/slog"

	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"
)

// RequeuePendingOrdersCommandHandler republishes assignment requests for
// orders that stayed Pending, typically because no courier was free when
// their first request was handled or because that request was never published.
type RequeuePendingOrdersCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	publisher  ports.AssignmentRequestPublisher
	lifecycle  services.OrderLifecycle
	logger     *slog.Logger
}

func NewRequeuePendingOrdersCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	publisher ports.AssignmentRequestPublisher,
	lifecycle services.OrderLifecycle,
	logger *slog.Logger,
) RequeuePendingOrdersCommandHandler {
	return RequeuePendingOrdersCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		lifecycle:  lifecycle,
		logger:     logger.With("component", "requeue"),
	}
}

// Handle republishes every stale order it finds and returns how many requests
// went out. Publish failures do not stop the batch; they are joined into the
// returned error.
func (h *RequeuePendingOrdersCommandHandler) Handle(ctx context.Context, cmd RequeuePendingOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	stale, err := uow.OrderRepository().ListStalePending(ctx, cmd.Cutoff(h.lifecycle.Now()), cmd.Limit())
	if err != nil {
		return 0, err
	}

	vendors := uow.VendorRepository()
	var (
		published int
		failures  []error
	)
	for _, o := range stale {
		v, err := vendors.Get(ctx, o.VendorID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			h.logger.WarnContext(ctx, "vendor of pending order not found, skipping",
				"order_id", o.ID().String(), "vendor_id", o.VendorID().String())
			continue
		}
		if err != nil {
			return published, errors.Join(append(failures, err)...)
		}

		if err = h.publisher.PublishAssignmentRequest(ctx, assignmentRequestFor(o, v.PickupPoint())); err != nil {
			failures = append(failures, err)
			continue
		}
		published++
	}

	if len(stale) > 0 {
		h.logger.InfoContext(ctx, "pending orders requeued",
			"found", len(stale), "published", published, "failed", len(failures))
	}
	return published, errors.Join(failures...)
}
