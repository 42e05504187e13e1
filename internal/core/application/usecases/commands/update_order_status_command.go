package commands

import (
	"errors"
	"strings"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand moves an order along its lifecycle on behalf of
// updatedBy (a vendor, a courier, the customer or an operator).
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	newStatus order.Status
	updatedBy string
	notes     string

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand validates the order id and the requested status.
// Whether the move is allowed is decided by the handler against the stored order.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	newStatus order.Status,
	updatedBy, notes string,
) (UpdateOrderStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), newStatus.Validate()); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return UpdateOrderStatusCommand{
		orderID:   orderID,
		newStatus: newStatus,
		updatedBy: strings.TrimSpace(updatedBy),
		notes:     strings.TrimSpace(notes),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID    { return c.orderID }
func (c UpdateOrderStatusCommand) NewStatus() order.Status { return c.newStatus }
func (c UpdateOrderStatusCommand) UpdatedBy() string       { return c.updatedBy }
func (c UpdateOrderStatusCommand) Notes() string           { return c.notes }
