package queries

import (
	"errors"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersByCustomerQuery or NewListOrdersByVendorQuery",
	)
)

// ListOrdersQuery lists the orders of one customer or of one vendor, newest first.
type ListOrdersQuery struct {
	customerID *kernel.UUID
	vendorID   *kernel.UUID
	guard      guard.ConstructorGuard
}

func NewListOrdersByCustomerQuery(customerID kernel.UUID) (ListOrdersQuery, error) {
	if err := customerID.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{customerID: &customerID, guard: guard.NewConstructorGuard()}, nil
}

func NewListOrdersByVendorQuery(vendorID kernel.UUID) (ListOrdersQuery, error) {
	if err := vendorID.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{vendorID: &vendorID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// CustomerID is nil for a vendor listing.
func (q ListOrdersQuery) CustomerID() *kernel.UUID { return q.customerID }

// VendorID is nil for a customer listing.
func (q ListOrdersQuery) VendorID() *kernel.UUID { return q.vendorID }
