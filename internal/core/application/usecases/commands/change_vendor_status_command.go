package commands

import (
	"errors"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/pkg/guard"
)

var ErrChangeVendorStatusCommandIsNotConstructed = errors.New(
	"ChangeVendorStatusCommand must be created via NewChangeVendorStatusCommand constructor",
)

// ChangeVendorStatusCommand is a vendor opening, pausing or closing.
type ChangeVendorStatusCommand struct { //nolint:recvcheck //using for validation
	vendorID kernel.UUID
	status   merchant.Status

	guard guard.ConstructorGuard
}

func NewChangeVendorStatusCommand(vendorID kernel.UUID, status merchant.Status) (ChangeVendorStatusCommand, error) {
	if err := errors.Join(vendorID.Validate(), status.Validate()); err != nil {
		return ChangeVendorStatusCommand{}, err
	}

	return ChangeVendorStatusCommand{
		vendorID: vendorID,
		status:   status,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeVendorStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeVendorStatusCommandIsNotConstructed)
}

func (c ChangeVendorStatusCommand) VendorID() kernel.UUID   { return c.vendorID }
func (c ChangeVendorStatusCommand) Status() merchant.Status { return c.status }
