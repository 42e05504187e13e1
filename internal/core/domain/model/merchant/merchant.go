// Package merchant holds the Vendor aggregate, the restaurant preparing orders.
// Its address is the pickup point couriers are ranked against.
package merchant

import (
	"errors"
	"strings"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
)

var (
	// ErrNameIsRequired is returned when registering a vendor without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrVendorIsNotConstructed is returned when using an improperly initialized Vendor.
	ErrVendorIsNotConstructed = errors.New("Vendor must be created via NewVendor constructor")
	// ErrVendorNotAccepting is returned when placing an order with an inactive or Offline vendor.
	ErrVendorNotAccepting = errors.New("vendor is not accepting orders")
)

// Vendor is a restaurant that prepares orders.
type Vendor struct {
	id      kernel.UUID
	name    string
	address kernel.Address
	status  Status
	active  bool

	isConstructed bool
}

// NewVendor registers an active vendor that starts Online.
func NewVendor(id kernel.UUID, name string, address kernel.Address) (*Vendor, error) {
	return RestoreVendor(id, name, address, Online, true)
}

// RestoreVendor rebuilds a vendor loaded from storage.
func RestoreVendor(id kernel.UUID, name string, address kernel.Address, status Status, active bool) (*Vendor, error) {
	v := &Vendor{status: status, active: active, isConstructed: true}

	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = ErrNameIsRequired
	}
	var addressErr error
	if err := address.Validate(); err != nil {
		addressErr = errs.NewValueIsInvalidErrorWithCause("address", err)
	}
	if err := errors.Join(id.Validate(), nameErr, addressErr, status.Validate()); err != nil {
		return nil, err
	}

	v.id, v.name, v.address = id, name, address
	return v, nil
}

// Validate ensures the Vendor instance was properly constructed.
func (v *Vendor) Validate() error {
	if v == nil || !v.isConstructed {
		return ErrVendorIsNotConstructed
	}
	return nil
}

func (v *Vendor) ID() kernel.UUID         { return v.id }
func (v *Vendor) Name() string            { return v.name }
func (v *Vendor) Address() kernel.Address { return v.address }
func (v *Vendor) Status() Status          { return v.status }
func (v *Vendor) IsActive() bool          { return v.active }

// IsAcceptingOrders reports whether new orders may be placed with the vendor.
func (v *Vendor) IsAcceptingOrders() bool {
	return v.active && v.status != Offline
}

// ChangeStatus sets the vendor status and returns the previous one.
// changed is false when status equals the current status.
func (v *Vendor) ChangeStatus(status Status) (previous Status, changed bool, err error) {
	if err = status.Validate(); err != nil {
		return v.status, false, err
	}
	previous = v.status
	if previous == status {
		return previous, false, nil
	}
	v.status = status
	return previous, true, nil
}

// PickupPoint returns the coordinates couriers are ranked against.
func (v *Vendor) PickupPoint() kernel.Coordinates {
	return v.address.Coordinates
}
