package ports

import (
	"context"
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
)

const (
	// LocationTTL bounds how long a cached courier location is served.
	LocationTTL = 5 * time.Minute
	// AvailabilityTTL bounds the availability marker of a courier.
	AvailabilityTTL = time.Hour
)

// ErrCacheMiss is returned when the cache holds no entry for the key.
var ErrCacheMiss = errors.New("cache miss")

// LocationCache is a best-effort key-value view of courier locations and
// availability. It is never authoritative for reservations.
type LocationCache interface {
	// GetLocation returns the cached location or ErrCacheMiss.
	GetLocation(ctx context.Context, courierID kernel.UUID) (courier.Location, error)
	// SetLocation caches the location for LocationTTL.
	SetLocation(ctx context.Context, courierID kernel.UUID, location courier.Location) error
	// IsAvailable reports whether the availability marker is set. The marker
	// is set while a courier is Available and unreserved, and expires after
	// AvailabilityTTL unless refreshed.
	IsAvailable(ctx context.Context, courierID kernel.UUID) (bool, error)
	// MarkAvailable sets the availability marker for AvailabilityTTL.
	MarkAvailable(ctx context.Context, courierID kernel.UUID) error
	// ClearAvailable removes the availability marker.
	ClearAvailable(ctx context.Context, courierID kernel.UUID) error
}
