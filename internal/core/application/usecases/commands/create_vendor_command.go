package commands

import (
	"errors"
	"strings"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var ErrCreateVendorCommandIsNotConstructed = errors.New(
	"CreateVendorCommand must be created via NewCreateVendorCommand constructor",
)

// CreateVendorCommand registers a restaurant whose address becomes the pickup
// point of its orders.
type CreateVendorCommand struct { //nolint:recvcheck //using for validation
	vendorID kernel.UUID
	name     string
	address  kernel.Address

	guard guard.ConstructorGuard
}

// NewCreateVendorCommand generates the vendor id and validates the address.
func NewCreateVendorCommand(name string, address kernel.Address) (CreateVendorCommand, error) {
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = ErrNameIsRequired
	}
	if err := errors.Join(nameErr, address.Validate()); err != nil {
		return CreateVendorCommand{}, err
	}

	return CreateVendorCommand{
		vendorID: kernel.NewUUID(),
		name:     name,
		address:  address,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateVendorCommand) Validate() error {
	return c.guard.Validate(ErrCreateVendorCommandIsNotConstructed)
}

func (c CreateVendorCommand) VendorID() kernel.UUID   { return c.vendorID }
func (c CreateVendorCommand) Name() string            { return c.name }
func (c CreateVendorCommand) Address() kernel.Address { return c.address }
