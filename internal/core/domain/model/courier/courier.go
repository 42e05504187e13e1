package courier

import (
	"errors"
	"fmt"
	"strings"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	// ErrCourierNotAvailable is returned when reserving a courier that cannot take an order.
	ErrCourierNotAvailable = errors.New("courier is not available")
	// ErrCourierIsBusy is returned when changing the availability of a courier on delivery.
	ErrCourierIsBusy = errors.New("courier is busy with an order")
	// ErrBusyIsNotSettable is returned when Busy is requested as an availability change.
	ErrBusyIsNotSettable = errors.New("busy status is set only by assignment")
)

// Courier represents a delivery person.
//
// Business rules:
//   - currentOrderID is set iff the status is Busy
//   - only an active, Available courier without an order can be reserved
//   - Busy is entered by Reserve and left by Release; SetAvailability never touches it
//
// Example usage:
//
//	c, err := courier.NewCourier(kernel.NewUUID(), "Jane Doe")
//	if err != nil {
//	    // Handle construction error
//	}
//	_ = c.SetAvailability(courier.Available)
type Courier struct {
	id             kernel.UUID
	name           string
	status         Status
	location       *Location
	currentOrderID *kernel.UUID
	active         bool
	version        int64

	isConstructed bool
}

// NewCourier registers an active courier who starts Offline and without a location.
func NewCourier(id kernel.UUID, name string) (*Courier, error) {
	c := &Courier{
		status:        Offline,
		active:        true,
		isConstructed: true,
	}

	if err := errors.Join(c.setID(id), c.setName(name)); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreParams carries the persisted state of a courier.
type RestoreParams struct {
	ID             kernel.UUID
	Name           string
	Status         Status
	Location       *Location
	CurrentOrderID *kernel.UUID
	Active         bool
	Version        int64
}

// RestoreCourier rebuilds a courier loaded from storage and re-checks its invariants.
func RestoreCourier(p RestoreParams) (*Courier, error) {
	c := &Courier{
		status:         p.Status,
		location:       p.Location,
		currentOrderID: p.CurrentOrderID,
		active:         p.Active,
		version:        p.Version,
		isConstructed:  true,
	}

	if err := errors.Join(c.setID(p.ID), c.setName(p.Name), p.Status.Validate()); err != nil {
		return nil, err
	}
	if err := c.checkInvariants(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Courier instance was properly constructed.
func (c *Courier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCourierIsNotConstructed
	}
	return nil
}

// IsEqual compares two couriers by their identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

func (c *Courier) ID() kernel.UUID { return c.id }
func (c *Courier) Name() string    { return c.name }
func (c *Courier) Status() Status  { return c.status }
func (c *Courier) IsActive() bool  { return c.active }
func (c *Courier) Version() int64  { return c.version }

// Location returns the last known position, or nil if the courier never reported one.
func (c *Courier) Location() *Location {
	return c.location
}

// CurrentOrderID returns the order the courier is delivering, or nil.
func (c *Courier) CurrentOrderID() *kernel.UUID {
	return c.currentOrderID
}

// IsAvailable reports whether the courier can be reserved right now.
func (c *Courier) IsAvailable() bool {
	return c.active && c.status == Available && c.currentOrderID == nil
}

// UpdateLocation stores a newer position fix. Fixes older than the current one
// are ignored and reported with false.
func (c *Courier) UpdateLocation(location Location) (bool, error) {
	if err := location.Validate(); err != nil {
		return false, err
	}
	if c.location != nil && location.Timestamp().Before(c.location.Timestamp()) {
		return false, nil
	}
	c.location = &location
	return true, nil
}

// Reserve marks the courier Busy with orderID.
func (c *Courier) Reserve(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if !c.IsAvailable() {
		return fmt.Errorf("%w: %s is %s", ErrCourierNotAvailable, c.id, c.status)
	}
	c.status = Busy
	c.currentOrderID = &orderID
	return nil
}

// Release frees the courier from orderID. Releasing an order the courier does
// not hold changes nothing and returns false.
func (c *Courier) Release(orderID kernel.UUID) bool {
	if c.currentOrderID == nil || !c.currentOrderID.IsEqual(orderID) {
		return false
	}
	c.status = Available
	c.currentOrderID = nil
	return true
}

// SetAvailability applies an externally driven status change.
func (c *Courier) SetAvailability(status Status) error {
	if err := ValidateAvailabilityChange(c.status, status); err != nil {
		return err
	}
	c.status = status
	return nil
}

// ValidateAvailabilityChange enforces that Busy is neither requested nor left
// through an availability change.
func ValidateAvailabilityChange(current, requested Status) error {
	if err := requested.Validate(); err != nil {
		return err
	}
	if requested == Busy {
		return ErrBusyIsNotSettable
	}
	if current == Busy {
		return ErrCourierIsBusy
	}
	return nil
}

// MarkPersisted records the version written by the repository.
func (c *Courier) MarkPersisted(version int64) {
	c.version = version
}

func (c *Courier) checkInvariants() error {
	if (c.status == Busy) != (c.currentOrderID != nil) {
		return errs.NewValueIsInvalidErrorWithCause("currentOrderId",
			fmt.Errorf("courier is %s with order %v", c.status, c.currentOrderID))
	}
	if c.location != nil {
		return c.location.Validate()
	}
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
