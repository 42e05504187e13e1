package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderNotPending is returned when an assignment targets an order that already left Pending.
	ErrOrderNotPending = errors.New("order is not pending")
)

// Order is the aggregate root of a customer's food order. It owns the status,
// the courier assignment and the append-only status history.
//
// Order follows these invariants:
//   - courierID is set iff the status is Confirmed or later; a Cancelled
//     order keeps whichever courier it had
//   - history timestamps never decrease
//   - the last history entry carries the current status
//   - status changes only through Transition or AssignCourier
type Order struct {
	id                    kernel.UUID
	customerID            kernel.UUID
	vendorID              kernel.UUID
	courierID             *kernel.UUID
	items                 []Item
	totalAmount           decimal.Decimal
	status                Status
	deliveryAddress       kernel.Address
	createdAt             time.Time
	updatedAt             time.Time
	estimatedDeliveryTime *time.Time
	history               []HistoryEntry
	version               int64

	isConstructed bool
}

// NewOrder creates a Pending order with its first history entry.
//
// Parameters:
//   - id, customerID, vendorID: valid identifiers
//   - items: at least one valid line; the total is derived from them
//   - deliveryAddress: destination with validated coordinates
//   - placedBy: actor recorded in the initial history entry
//   - now: creation timestamp
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, vendorID, items, address, "customer", time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(
	id, customerID, vendorID kernel.UUID,
	items []Item,
	deliveryAddress kernel.Address,
	placedBy string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIDs(id, customerID, vendorID),
		o.setItems(items),
		o.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return nil, err
	}

	o.history = []HistoryEntry{{
		Status:    Pending,
		Timestamp: now,
		UpdatedBy: actorOrDefault(placedBy),
		Notes:     "order placed",
	}}

	return o, nil
}

// RestoreParams carries the persisted state of an order.
type RestoreParams struct {
	ID                    kernel.UUID
	CustomerID            kernel.UUID
	VendorID              kernel.UUID
	CourierID             *kernel.UUID
	Items                 []Item
	TotalAmount           decimal.Decimal
	Status                Status
	DeliveryAddress       kernel.Address
	CreatedAt             time.Time
	UpdatedAt             time.Time
	EstimatedDeliveryTime *time.Time
	History               []HistoryEntry
	Version               int64
}

// RestoreOrder rebuilds an order loaded from storage and re-checks its invariants.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		courierID:             p.CourierID,
		items:                 p.Items,
		totalAmount:           p.TotalAmount,
		status:                p.Status,
		createdAt:             p.CreatedAt,
		updatedAt:             p.UpdatedAt,
		estimatedDeliveryTime: p.EstimatedDeliveryTime,
		history:               p.History,
		version:               p.Version,
		isConstructed:         true,
	}

	if err := errors.Join(
		o.setIDs(p.ID, p.CustomerID, p.VendorID),
		o.setDeliveryAddress(p.DeliveryAddress),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if err := o.checkInvariants(); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                   { return o.id }
func (o *Order) CustomerID() kernel.UUID           { return o.customerID }
func (o *Order) VendorID() kernel.UUID             { return o.vendorID }
func (o *Order) Status() Status                    { return o.status }
func (o *Order) TotalAmount() decimal.Decimal      { return o.totalAmount }
func (o *Order) DeliveryAddress() kernel.Address   { return o.deliveryAddress }
func (o *Order) CreatedAt() time.Time              { return o.createdAt }
func (o *Order) UpdatedAt() time.Time              { return o.updatedAt }
func (o *Order) Version() int64                    { return o.version }
func (o *Order) EstimatedDeliveryTime() *time.Time { return o.estimatedDeliveryTime }

// CourierID returns the assigned courier, or nil while the order is unassigned.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// History returns a copy of the status log, oldest first.
func (o *Order) History() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history...)
}

// IsPending reports whether the order still waits for a courier.
func (o *Order) IsPending() bool {
	return o.status == Pending
}

// Transition moves the order to next and records it in the history.
//
// Re-applying the current status returns changed=false and records nothing.
// A move the transition table forbids returns an error wrapping
// ErrInvalidTransition and leaves the order untouched. Moving to Confirmed
// requires a courier, so assignment goes through AssignCourier.
//
// Example:
//
//	changed, err := o.Transition(order.Preparing, "vendor-42", "", time.Now())
//	if errors.Is(err, order.ErrInvalidTransition) {
//	    // Reject the request
//	}
func (o *Order) Transition(next Status, actor, note string, now time.Time) (bool, error) {
	if err := o.status.ValidateTransition(next); err != nil {
		return false, err
	}
	if next == o.status {
		return false, nil
	}
	if err := next.ValidateCanHaveCourier(o.courierID != nil); err != nil {
		return false, &InvalidTransitionError{From: o.status, To: next}
	}

	o.apply(next, actor, note, now)
	return true, nil
}

// AssignCourier binds the order to courierID, moves it to Confirmed and sets
// the delivery estimate. Only Pending orders accept a courier.
func (o *Order) AssignCourier(courierID kernel.UUID, eta time.Time, actor, note string, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.status != Pending {
		return fmt.Errorf("%w: %s is %s", ErrOrderNotPending, o.id, o.status)
	}
	if err := o.status.ValidateTransition(Confirmed); err != nil {
		return err
	}

	o.courierID = &courierID
	o.estimatedDeliveryTime = &eta
	o.apply(Confirmed, actor, note, now)
	return nil
}

// MarkPersisted records the version written by the repository.
func (o *Order) MarkPersisted(version int64) {
	o.version = version
}

func (o *Order) apply(next Status, actor, note string, now time.Time) {
	if last := o.history[len(o.history)-1].Timestamp; now.Before(last) {
		now = last
	}
	o.status = next
	o.updatedAt = now
	o.history = append(o.history, HistoryEntry{
		Status:    next,
		Timestamp: now,
		UpdatedBy: actorOrDefault(actor),
		Notes:     note,
	})
}

func (o *Order) checkInvariants() error {
	if len(o.history) == 0 {
		return errs.NewValueIsRequiredError("history")
	}
	for i := 1; i < len(o.history); i++ {
		if o.history[i].Timestamp.Before(o.history[i-1].Timestamp) {
			return errs.NewValueIsInvalidErrorWithCause("history",
				fmt.Errorf("entry %d is older than entry %d", i, i-1))
		}
	}
	if last := o.history[len(o.history)-1].Status; last != o.status {
		return errs.NewValueIsInvalidErrorWithCause("history",
			fmt.Errorf("last entry is %s, order is %s", last, o.status))
	}
	return o.status.ValidateCanHaveCourier(o.courierID != nil)
}

func (o *Order) setIDs(id, customerID, vendorID kernel.UUID) error {
	if err := errors.Join(id.Validate(), customerID.Validate(), vendorID.Validate()); err != nil {
		return err
	}
	o.id, o.customerID, o.vendorID = id, customerID, vendorID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
	}
	o.items = append([]Item(nil), items...)
	o.totalAmount = Total(items)
	return nil
}

func (o *Order) setDeliveryAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("deliveryAddress", err)
	}
	o.deliveryAddress = address
	return nil
}

func actorOrDefault(actor string) string {
	if a := strings.TrimSpace(actor); a != "" {
		return a
	}
	return "system"
}
