package queries

import (
	"errors"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var (
	ErrGetVendorQueryIsNotConstructed = errors.New(
		"GetVendorQuery must be created via NewGetVendorQuery constructor",
	)
	ErrListVendorsQueryIsNotConstructed = errors.New(
		"ListVendorsQuery must be created via NewListVendorsQuery constructor",
	)
)

type GetVendorQuery struct {
	vendorID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetVendorQuery(vendorID kernel.UUID) (GetVendorQuery, error) {
	if err := vendorID.Validate(); err != nil {
		return GetVendorQuery{}, err
	}
	return GetVendorQuery{vendorID: vendorID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetVendorQuery) Validate() error {
	return q.guard.Validate(ErrGetVendorQueryIsNotConstructed)
}

func (q GetVendorQuery) VendorID() kernel.UUID { return q.vendorID }

// ListVendorsQuery lists every active vendor, Offline ones included.
type ListVendorsQuery struct {
	guard guard.ConstructorGuard
}

func NewListVendorsQuery() ListVendorsQuery {
	return ListVendorsQuery{guard: guard.NewConstructorGuard()}
}

func (q ListVendorsQuery) Validate() error {
	return q.guard.Validate(ErrListVendorsQueryIsNotConstructed)
}

// VendorResponse is the read model of a vendor.
type VendorResponse struct {
	ID                kernel.UUID
	Name              string
	Address           kernel.Address
	Status            string
	IsActive          bool
	IsAcceptingOrders bool
}
