package commands

import (
	"errors"
	"slices"
	"strings"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one item is required")
)

// CreateOrderCommand represents a customer placing a food order with a vendor.
// The order is stored as Pending and an assignment request is published for it.
//
// Example:
//
//	item, _ := order.NewItem("pizza-1", "Margherita", 2, decimal.RequireFromString("9.50"), "")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customerID, vendorID, []order.Item{item}, address, "customer")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	customerID      kernel.UUID
	vendorID        kernel.UUID
	items           []order.Item
	deliveryAddress kernel.Address
	placedBy        string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Identifiers, items and the delivery address are validated; an empty
// placedBy is recorded as the system actor.
func NewCreateOrderCommand(
	orderID, customerID, vendorID kernel.UUID,
	items []order.Item,
	deliveryAddress kernel.Address,
	placedBy string,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		placedBy: strings.TrimSpace(placedBy),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setIDs(orderID, customerID, vendorID),
		orderCommand.setItems(items),
		orderCommand.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID            { return c.orderID }
func (c CreateOrderCommand) CustomerID() kernel.UUID         { return c.customerID }
func (c CreateOrderCommand) VendorID() kernel.UUID           { return c.vendorID }
func (c CreateOrderCommand) DeliveryAddress() kernel.Address { return c.deliveryAddress }
func (c CreateOrderCommand) PlacedBy() string                { return c.placedBy }

// Items returns a copy of the ordered items.
func (c CreateOrderCommand) Items() []order.Item {
	return slices.Clone(c.items)
}

func (c *CreateOrderCommand) setIDs(orderID, customerID, vendorID kernel.UUID) error {
	if err := errors.Join(orderID.Validate(), customerID.Validate(), vendorID.Validate()); err != nil {
		return err
	}

	c.orderID = orderID
	c.customerID = customerID
	c.vendorID = vendorID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	c.items = slices.Clone(items)
	return nil
}

func (c *CreateOrderCommand) setDeliveryAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.deliveryAddress = address
	return nil
}
