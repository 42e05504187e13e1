package ports

import (
	"context"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
// Status and current order are not written here; those columns belong to
// ReservationGuard.
type CourierRepository interface {
	// Add registers a new courier.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier by identifier.
	// A missing courier yields errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// ListAvailable returns every courier with status Available and the active flag set.
	//
	// Example:
	//   available, err := repo.ListAvailable(ctx)
	//   if err != nil {
	//       return fmt.Errorf("failed to list couriers: %w", err)
	//   }
	ListAvailable(ctx context.Context) ([]*courier.Courier, error)

	// UpdateLocation persists the courier's last location only.
	UpdateLocation(ctx context.Context, aggregate *courier.Courier) error
}
