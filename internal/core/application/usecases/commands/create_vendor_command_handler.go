package commands

import (
	"context"

	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/core/ports"
)

// CreateVendorCommandHandler persists new vendors.
type CreateVendorCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewCreateVendorCommandHandler(uowFactory ports.UnitOfWorkFactory) CreateVendorCommandHandler {
	return CreateVendorCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *CreateVendorCommandHandler) Handle(ctx context.Context, cmd CreateVendorCommand) error {
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

	vendor, err := merchant.NewVendor(cmd.VendorID(), cmd.Name(), cmd.Address())
	if err != nil {
		return err
	}

	if err = uow.VendorRepository().Add(ctx, vendor); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
