package commands

import (
	"errors"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand asks the engine to reserve the closest available courier
// for one Pending order. It is built from an AssignmentRequest and may be
// handled more than once for the same order.
//
// Example:
//
//	cmd, err := NewAssignCourierCommand(orderID, vendorID, vendorPoint, deliveryPoint, 1)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoCandidate) {
//	    log.Printf("no courier for %s, will be requeued", orderID)
//	}
type AssignCourierCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	vendorID kernel.UUID
	pickup   kernel.Coordinates
	delivery kernel.Coordinates
	priority int

	guard guard.ConstructorGuard
}

// NewAssignCourierCommand validates identifiers and coordinates. A priority
// below 1 falls back to ports.DefaultPriority.
func NewAssignCourierCommand(
	orderID, vendorID kernel.UUID,
	pickup, delivery kernel.Coordinates,
	priority int,
) (AssignCourierCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		vendorID.Validate(),
		pickup.Validate(),
		delivery.Validate(),
	); err != nil {
		return AssignCourierCommand{}, err
	}
	if priority < 1 {
		priority = ports.DefaultPriority
	}

	return AssignCourierCommand{
		orderID:  orderID,
		vendorID: vendorID,
		pickup:   pickup,
		delivery: delivery,
		priority: priority,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// NewAssignCourierCommandFromRequest validates an AssignmentRequest received from the transport.
func NewAssignCourierCommandFromRequest(request ports.AssignmentRequest) (AssignCourierCommand, error) {
	pickup, pickupErr := kernel.NewCoordinates(request.VendorLatitude, request.VendorLongitude)
	delivery, deliveryErr := kernel.NewCoordinates(request.DeliveryLatitude, request.DeliveryLongitude)
	if err := errors.Join(pickupErr, deliveryErr); err != nil {
		return AssignCourierCommand{}, err
	}
	return NewAssignCourierCommand(request.OrderID, request.VendorID, pickup, delivery, request.Priority)
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignCourierCommandIsNotConstructed if validation fails.
func (c *AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

func (c AssignCourierCommand) OrderID() kernel.UUID         { return c.orderID }
func (c AssignCourierCommand) VendorID() kernel.UUID        { return c.vendorID }
func (c AssignCourierCommand) Pickup() kernel.Coordinates   { return c.pickup }
func (c AssignCourierCommand) Delivery() kernel.Coordinates { return c.delivery }
func (c AssignCourierCommand) Priority() int                { return c.priority }
