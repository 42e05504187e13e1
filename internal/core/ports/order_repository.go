package ports

import (
	"context"
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
)

// ErrVersionConflict is returned when an aggregate changed in storage since it was loaded.
var ErrVersionConflict = errors.New("aggregate was modified concurrently")

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its items and history.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes status, courier, estimate and new history entries.
	// The write is conditional on the version the order was loaded with;
	// a mismatch yields ErrVersionConflict.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with items and history.
	// A missing order yields errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByCustomer returns the orders placed by a customer, newest first.
	ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error)
	// ListByVendor returns the orders placed with a vendor, newest first.
	ListByVendor(ctx context.Context, vendorID kernel.UUID) ([]*order.Order, error)
	// ListStalePending returns up to limit Pending orders created before olderThan,
	// oldest first. Orders whose vendor no longer exists are left out.
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*order.Order, error)
}
