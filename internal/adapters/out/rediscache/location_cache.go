// Package rediscache implements ports.LocationCache on Redis.
//
// Keys:
//   - location:{courierId} holds the last fix as JSON, expiring after ports.LocationTTL
//   - courier:available:{courierId} marks an available courier, expiring after ports.AvailabilityTTL
//
// The cache is never consulted for reservations; a lost key only costs a
// round trip to the store.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	locationPrefix  = "location:"
	availablePrefix = "courier:available:"
)

type locationEntry struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	Accuracy  float64   `json:"accuracy"`
	Speed     *float64  `json:"speed,omitempty"`
}

// LocationCache stores courier locations and availability markers.
type LocationCache struct {
	client redis.Cmdable
}

func NewLocationCache(client redis.Cmdable) *LocationCache {
	return &LocationCache{client: client}
}

func LocationKey(courierID kernel.UUID) string  { return locationPrefix + courierID.String() }
func AvailableKey(courierID kernel.UUID) string { return availablePrefix + courierID.String() }

// GetLocation returns ports.ErrCacheMiss when no fresh fix is cached.
func (c *LocationCache) GetLocation(ctx context.Context, courierID kernel.UUID) (courier.Location, error) {
	raw, err := c.client.Get(ctx, LocationKey(courierID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return courier.Location{}, ports.ErrCacheMiss
	}
	if err != nil {
		return courier.Location{}, errs.NewPersistenceError("cache get location", err)
	}

	var entry locationEntry
	if err = json.Unmarshal(raw, &entry); err != nil {
		return courier.Location{}, errs.NewValueIsInvalidErrorWithCause("cached location", err)
	}

	coordinates, err := kernel.NewCoordinates(entry.Latitude, entry.Longitude)
	if err != nil {
		return courier.Location{}, err
	}
	return courier.NewLocation(coordinates, entry.Timestamp, entry.Accuracy, entry.Speed)
}

func (c *LocationCache) SetLocation(ctx context.Context, courierID kernel.UUID, location courier.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(locationEntry{
		Latitude:  location.Coordinates().Latitude(),
		Longitude: location.Coordinates().Longitude(),
		Timestamp: location.Timestamp(),
		Accuracy:  location.Accuracy(),
		Speed:     location.Speed(),
	})
	if err != nil {
		return err
	}

	err = c.client.Set(ctx, LocationKey(courierID), raw, ports.LocationTTL).Err()
	return errs.NewPersistenceError("cache set location", err)
}

// IsAvailable reports whether the availability marker is present.
func (c *LocationCache) IsAvailable(ctx context.Context, courierID kernel.UUID) (bool, error) {
	n, err := c.client.Exists(ctx, AvailableKey(courierID)).Result()
	if err != nil {
		return false, errs.NewPersistenceError("cache check available", err)
	}
	return n > 0, nil
}

func (c *LocationCache) MarkAvailable(ctx context.Context, courierID kernel.UUID) error {
	err := c.client.Set(ctx, AvailableKey(courierID), time.Now().UTC().Format(time.RFC3339), ports.AvailabilityTTL).Err()
	return errs.NewPersistenceError("cache mark available", err)
}

func (c *LocationCache) ClearAvailable(ctx context.Context, courierID kernel.UUID) error {
	err := c.client.Del(ctx, AvailableKey(courierID)).Err()
	return errs.NewPersistenceError("cache clear available", err)
}
