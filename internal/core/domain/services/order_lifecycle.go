package services

import (
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
)

const (
	// SystemActor is recorded in the history for changes made by the dispatcher itself.
	SystemActor = "system"
	// AutoAssignedNote is recorded when the engine confirms an order.
	AutoAssignedNote = "auto-assigned"
)

// OrderLifecycle applies status changes to orders and couriers using a single
// clock, so that history timestamps and ETAs agree.
type OrderLifecycle struct {
	now func() time.Time
}

// NewOrderLifecycle creates a lifecycle manager. A nil clock defaults to time.Now in UTC.
func NewOrderLifecycle(clock func() time.Time) OrderLifecycle {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return OrderLifecycle{now: clock}
}

// Now returns the lifecycle clock reading.
func (l OrderLifecycle) Now() time.Time {
	return l.now()
}

// Transition moves o to next on behalf of actor.
//
// Returns:
//   - changed: false when next equals the current status (nothing recorded)
//   - error: wraps order.ErrInvalidTransition for moves the table forbids
func (l OrderLifecycle) Transition(o *order.Order, next order.Status, actor, note string) (bool, error) {
	return o.Transition(next, actor, note, l.now())
}

// Assign confirms o for courierID, deriving the delivery estimate from the
// courier's distance to the vendor. It returns the estimate it recorded.
func (l OrderLifecycle) Assign(o *order.Order, courierID kernel.UUID, distanceKm float64) (time.Time, error) {
	now := l.now()
	eta := kernel.EstimateDeliveryETA(now, distanceKm)
	if err := o.AssignCourier(courierID, eta, SystemActor, AutoAssignedNote, now); err != nil {
		return time.Time{}, err
	}
	return eta, nil
}

// PickupETA is the fixed pickup estimate published with a dispatch.
func (l OrderLifecycle) PickupETA() time.Time {
	return kernel.EstimatePickupETA(l.now())
}

// CourierToRelease returns the courier that must go back to Available after o
// reached a terminal status, or nil.
func (l OrderLifecycle) CourierToRelease(o *order.Order) *kernel.UUID {
	if !o.Status().IsTerminal() {
		return nil
	}
	return o.CourierID()
}
