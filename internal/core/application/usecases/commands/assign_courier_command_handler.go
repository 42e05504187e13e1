package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"
)

// ErrNoCandidate is returned when no courier could be reserved for an order.
var ErrNoCandidate = errors.New("no courier candidate available")

// AssignCourierCommandHandler is the assignment engine. For one request it
// ranks the available couriers by distance to the vendor, reserves the first
// one it can, confirms the order and records a DispatchOutcome in the outbox.
// After the commit the outcome is published and pushed to the customer's
// order group and the courier's group.
//
// Guarantees:
//   - a courier is reserved through ports.ReservationGuard before the order is touched
//   - the order is re-read inside the transaction; if it left Pending meanwhile the
//     reservation is released and order.ErrOrderNotPending is returned
//   - any failure after a successful reservation releases it before returning
//   - the cache availability marker is cleared for the reserved courier and set
//     again when a reservation is released
//   - a request for an order that is no longer Pending is acknowledged without
//     reserving anything, so redeliveries are harmless
//
// Example:
//
//	handler := NewAssignCourierCommandHandler(uowFactory, directory, cache, producer, producer, lifecycle, dispatchMetrics, logger)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoCandidate):
//	    // Leave it to the requeue job
//	case errors.Is(err, order.ErrOrderNotPending):
//	    // Someone else confirmed or cancelled the order
//	case err != nil:
//	    // Infrastructure failure, redeliver
//	}
type AssignCourierCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	candidates CandidateSource
	cache      ports.LocationCache
	sender     ports.OutboxSender
	realtime   ports.RealtimeNotifier
	lifecycle  services.OrderLifecycle
	ranker     services.CourierRanker
	metrics    AssignmentMetrics
	logger     *slog.Logger
}

// NewAssignCourierCommandHandler wires the engine. A nil metrics disables counting.
func NewAssignCourierCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	candidates CandidateSource,
	cache ports.LocationCache,
	sender ports.OutboxSender,
	realtime ports.RealtimeNotifier,
	lifecycle services.OrderLifecycle,
	metrics AssignmentMetrics,
	logger *slog.Logger,
) *AssignCourierCommandHandler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &AssignCourierCommandHandler{
		uowFactory: uowFactory,
		candidates: candidates,
		cache:      cache,
		sender:     sender,
		realtime:   realtime,
		lifecycle:  lifecycle,
		ranker:     services.NewCourierRanker(),
		metrics:    metrics,
		logger:     logger.With("component", "assignment-engine"),
	}
}

// Handle processes one assignment request.
func (h *AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	logger := h.logger.With("order_id", cmd.OrderID().String())

	current, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if !current.IsPending() {
		logger.InfoContext(ctx, "order is no longer pending, skipping", "status", current.Status().String())
		h.metrics.ObserveAssignment(OutcomeNotPending)
		return nil
	}

	candidates, err := h.candidates.Candidates(ctx)
	if err != nil {
		h.metrics.ObserveAssignment(OutcomeFailed)
		return err
	}

	chosen, err := h.reserve(ctx, cmd.OrderID(), h.ranker.Rank(cmd.Pickup(), candidates))
	if errors.Is(err, ErrNoCandidate) {
		logger.WarnContext(ctx, "no courier could be reserved", "candidates", len(candidates))
		h.metrics.ObserveAssignment(OutcomeNoCandidate)
		return err
	}
	if err != nil {
		h.metrics.ObserveAssignment(OutcomeFailed)
		return err
	}

	message, outcome, err := h.confirm(ctx, cmd, chosen)
	if err != nil {
		h.release(ctx, chosen.Courier, cmd.OrderID())
		if errors.Is(err, order.ErrOrderNotPending) {
			logger.InfoContext(ctx, "order left pending during assignment, reservation released")
			h.metrics.ObserveAssignment(OutcomeNotPending)
			return err
		}
		h.metrics.ObserveAssignment(OutcomeFailed)
		return err
	}

	h.metrics.ObserveAssignment(OutcomeAssigned)
	logger.InfoContext(ctx, "courier assigned",
		"courier_id", chosen.Courier.ID().String(),
		"distance_km", chosen.DistanceKm,
	)

	h.publish(ctx, message)
	h.notify(ctx, outcome)
	return nil
}

// reserve walks the ranking and returns the first courier the guard grants.
// Losing a race moves on to the next candidate; any other failure stops the walk.
// The granted candidate is marked reserved in memory as well, and its
// availability marker is cleared.
func (h *AssignCourierCommandHandler) reserve(
	ctx context.Context,
	orderID kernel.UUID,
	ranked []services.RankedCourier,
) (services.RankedCourier, error) {
	if len(ranked) == 0 {
		return services.RankedCourier{}, ErrNoCandidate
	}

	guard := h.uowFactory.Create().ReservationGuard()
	for _, candidate := range ranked {
		err := guard.TryReserve(ctx, candidate.Courier.ID(), orderID)
		switch {
		case err == nil:
			if err = candidate.Courier.Reserve(orderID); err != nil {
				h.logger.WarnContext(ctx, "candidate snapshot disagrees with the guard",
					"order_id", orderID.String(), "courier_id", candidate.Courier.ID().String(), "error", err)
			}
			h.clearMarker(ctx, candidate.Courier.ID())
			return candidate, nil
		case errors.Is(err, ports.ErrAlreadyReserved), errors.Is(err, errs.ErrObjectNotFound):
			h.metrics.ReservationConflict()
			h.logger.DebugContext(ctx, "courier taken, trying next",
				"order_id", orderID.String(), "courier_id", candidate.Courier.ID().String())
		default:
			return services.RankedCourier{}, err
		}
	}

	return services.RankedCourier{}, ErrNoCandidate
}

// confirm re-reads the order, assigns the reserved courier and stores the
// outcome in the outbox, all in one transaction.
func (h *AssignCourierCommandHandler) confirm(
	ctx context.Context,
	cmd AssignCourierCommand,
	chosen services.RankedCourier,
) (ports.OutboxMessage, ports.DispatchOutcome, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.OutboxMessage{}, ports.DispatchOutcome{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return ports.OutboxMessage{}, ports.DispatchOutcome{}, err
	}
	if !o.IsPending() {
		return ports.OutboxMessage{}, ports.DispatchOutcome{}, fmt.Errorf("%w: %s is %s", order.ErrOrderNotPending, o.ID(), o.Status())
	}

	pickup, err := h.pickupAddress(ctx, uow.VendorRepository(), o.VendorID(), cmd.Pickup())
	if err != nil {
		return ports.OutboxMessage{}, ports.DispatchOutcome{}, err
	}

	eta, err := h.lifecycle.Assign(o, chosen.Courier.ID(), chosen.DistanceKm)
	if err != nil {
		return ports.OutboxMessage{}, ports.DispatchOutcome{}, err
	}
	if err = orders.Update(ctx, o); err != nil {
		return ports.OutboxMessage{}, ports.DispatchOutcome{}, err
	}

	outcome := ports.DispatchOutcome{
		OrderID:               o.ID(),
		CustomerID:            o.CustomerID(),
		VendorID:              o.VendorID(),
		CourierID:             chosen.Courier.ID(),
		CourierName:           chosen.Courier.Name(),
		PickupAddress:         pickup,
		DeliveryAddress:       ports.NewAddressPayload(o.DeliveryAddress()),
		EstimatedPickupTime:   h.lifecycle.PickupETA(),
		EstimatedDeliveryTime: eta,
	}
	payload, err := json.Marshal(outcome)
	if err != nil {
		return ports.OutboxMessage{}, ports.DispatchOutcome{}, err
	}

	message := ports.OutboxMessage{
		ID:        kernel.NewUUID(),
		EventType: ports.EventOrderDispatched,
		Key:       o.ID().String(),
		Payload:   payload,
		CreatedAt: h.lifecycle.Now(),
	}
	if err = uow.OutboxRepository().Add(ctx, message); err != nil {
		return ports.OutboxMessage{}, ports.DispatchOutcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ports.OutboxMessage{}, ports.DispatchOutcome{}, err
	}
	return message, outcome, nil
}

// pickupAddress resolves the vendor's address. A vendor missing from the
// store does not block dispatch; the request coordinates are used instead.
func (h *AssignCourierCommandHandler) pickupAddress(
	ctx context.Context,
	vendors ports.VendorRepository,
	vendorID kernel.UUID,
	fallback kernel.Coordinates,
) (ports.AddressPayload, error) {
	v, err := vendors.Get(ctx, vendorID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.WarnContext(ctx, "vendor not found, using request coordinates", "vendor_id", vendorID.String())
		return ports.AddressPayload{Latitude: fallback.Latitude(), Longitude: fallback.Longitude()}, nil
	}
	if err != nil {
		return ports.AddressPayload{}, err
	}
	return ports.NewAddressPayload(v.Address()), nil
}

// release undoes a reservation. It runs on a context detached from
// cancellation so that an aborted request still frees the courier.
func (h *AssignCourierCommandHandler) release(ctx context.Context, c *courier.Courier, orderID kernel.UUID) {
	h.metrics.Compensation()
	ctx = context.WithoutCancel(ctx)
	if err := h.uowFactory.Create().ReservationGuard().Release(ctx, c.ID(), orderID); err != nil {
		h.logger.ErrorContext(ctx, "failed to release reservation",
			"order_id", orderID.String(), "courier_id", c.ID().String(), "error", err)
		return
	}
	c.Release(orderID)
	if err := h.cache.MarkAvailable(ctx, c.ID()); err != nil {
		h.logger.WarnContext(ctx, "failed to restore availability marker",
			"courier_id", c.ID().String(), "error", err)
	}
}

func (h *AssignCourierCommandHandler) clearMarker(ctx context.Context, courierID kernel.UUID) {
	if err := h.cache.ClearAvailable(ctx, courierID); err != nil {
		h.logger.WarnContext(ctx, "failed to clear availability marker",
			"courier_id", courierID.String(), "error", err)
	}
}

// publish sends the committed outcome right away. Failures are left to the
// outbox relay.
func (h *AssignCourierCommandHandler) publish(ctx context.Context, message ports.OutboxMessage) {
	if err := h.sender.Send(ctx, message); err != nil {
		h.logger.WarnContext(ctx, "dispatch outcome not published, relay will retry",
			"order_id", message.Key, "error", err)
		return
	}
	if err := h.uowFactory.Create().OutboxRepository().MarkSent(ctx, message.ID, h.lifecycle.Now()); err != nil {
		h.logger.WarnContext(ctx, "failed to mark outbox message sent",
			"message_id", message.ID.String(), "error", err)
	}
}

// notify pushes the outcome to the customer following the order and to the
// assigned courier. Failures are logged only.
func (h *AssignCourierCommandHandler) notify(ctx context.Context, outcome ports.DispatchOutcome) {
	sends := []struct{ group, method string }{
		{ports.OrderGroup(outcome.OrderID), ports.RealtimeOrderDispatched},
		{ports.CourierGroup(outcome.CourierID), ports.RealtimeOrderAssigned},
	}
	for _, send := range sends {
		if err := h.realtime.SendToGroup(ctx, send.group, send.method, outcome); err != nil {
			h.logger.WarnContext(ctx, "realtime dispatch notice not sent",
				"order_id", outcome.OrderID.String(), "group", send.group, "error", err)
		}
	}
}
