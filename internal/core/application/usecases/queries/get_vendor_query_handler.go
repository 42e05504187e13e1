package queries

import (
	"context"

	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/core/ports"
)

type GetVendorQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetVendorQueryHandler(uowFactory ports.UnitOfWorkFactory) GetVendorQueryHandler {
	return GetVendorQueryHandler{uowFactory: uowFactory}
}

// Handle returns errs.ErrObjectNotFound when the vendor does not exist.
func (h GetVendorQueryHandler) Handle(ctx context.Context, query GetVendorQuery) (*VendorResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	v, err := h.uowFactory.Create().VendorRepository().Get(ctx, query.VendorID())
	if err != nil {
		return nil, err
	}
	return NewVendorResponse(v), nil
}

type ListVendorsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListVendorsQueryHandler(uowFactory ports.UnitOfWorkFactory) ListVendorsQueryHandler {
	return ListVendorsQueryHandler{uowFactory: uowFactory}
}

func (h ListVendorsQueryHandler) Handle(ctx context.Context, query ListVendorsQuery) ([]*VendorResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	vendors, err := h.uowFactory.Create().VendorRepository().ListActive(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		result = append(result, NewVendorResponse(v))
	}
	return result, nil
}

// NewVendorResponse projects a vendor onto the read model.
func NewVendorResponse(v *merchant.Vendor) *VendorResponse {
	return &VendorResponse{
		ID:                v.ID(),
		Name:              v.Name(),
		Address:           v.Address(),
		Status:            v.Status().String(),
		IsActive:          v.IsActive(),
		IsAcceptingOrders: v.IsAcceptingOrders(),
	}
}
