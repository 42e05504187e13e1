package ports

import (
	"context"
	"errors"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
)

// ErrAlreadyReserved is returned by TryReserve when the courier is no longer available.
var ErrAlreadyReserved = errors.New("courier already reserved")

// ReservationGuard is the only writer of courier status and current order.
// Every method is a single conditional write, so concurrent callers racing
// for the same courier see exactly one success. The conditions are the ones
// courier.Courier enforces in Reserve, Release and SetAvailability; callers
// apply the same method to their in-memory copy once the write succeeds.
type ReservationGuard interface {
	// TryReserve marks the courier Busy with orderID if, and only if, it is
	// active, Available and holds no order. Otherwise it returns ErrAlreadyReserved,
	// or errs.ErrObjectNotFound when the courier does not exist.
	TryReserve(ctx context.Context, courierID, orderID kernel.UUID) error

	// Release returns the courier to Available if it still holds orderID.
	// Releasing twice, or releasing an order the courier does not hold, is a no-op.
	Release(ctx context.Context, courierID, orderID kernel.UUID) error

	// SetAvailability applies an externally driven status (Offline, Available,
	// OnBreak) to a courier that is not Busy.
	SetAvailability(ctx context.Context, courierID kernel.UUID, status courier.Status) error
}
