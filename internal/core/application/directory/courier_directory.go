// Package directory answers "which couriers can take an order and where are
// they" by combining the courier store with the location cache.
package directory

import (
	"context"
	"errors"
	"log/slog"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"
)

// CourierDirectory is a read-through view over couriers and their locations.
// The store stays authoritative; cache failures only cost latency.
//
// Example:
//
//	dir := directory.NewCourierDirectory(uowFactory, cache, logger)
//	candidates, err := dir.Candidates(ctx)
//	if err != nil {
//	    return err
//	}
type CourierDirectory struct {
	uowFactory ports.UnitOfWorkFactory
	cache      ports.LocationCache
	logger     *slog.Logger
}

// NewCourierDirectory creates a directory reading through cache into the store.
func NewCourierDirectory(uowFactory ports.UnitOfWorkFactory, cache ports.LocationCache, logger *slog.Logger) *CourierDirectory {
	return &CourierDirectory{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger.With("component", "courier-directory"),
	}
}

// ListAvailable returns every active courier whose status is Available.
func (d *CourierDirectory) ListAvailable(ctx context.Context) ([]*courier.Courier, error) {
	return d.uowFactory.Create().CourierRepository().ListAvailable(ctx)
}

// GetLocation returns the freshest known location of a courier, or nil if it
// never reported one. A cache miss is filled from the store with LocationTTL.
func (d *CourierDirectory) GetLocation(ctx context.Context, courierID kernel.UUID) (*courier.Location, error) {
	if cached, ok := d.cachedLocation(ctx, courierID); ok {
		return &cached, nil
	}

	c, err := d.uowFactory.Create().CourierRepository().Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	location := c.Location()
	if location == nil {
		return nil, nil
	}

	d.writeBack(ctx, courierID, *location)
	return location, nil
}

// Candidates lists available couriers together with their location.
//
// A courier whose availability marker is gone was reserved or went idle past
// ports.AvailabilityTTL and is skipped without a location lookup. When the
// marker cannot be read the store's answer is used as is. Couriers that never
// reported a location are left out since they cannot be ranked; a location
// served from the store is written back to the cache.
func (d *CourierDirectory) Candidates(ctx context.Context) ([]*courier.Courier, error) {
	available, err := d.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]*courier.Courier, 0, len(available))
	for _, c := range available {
		if !d.markedAvailable(ctx, c.ID()) {
			d.logger.DebugContext(ctx, "skipping courier without availability marker", "courier_id", c.ID().String())
			continue
		}
		if cached, ok := d.cachedLocation(ctx, c.ID()); ok {
			if _, err = c.UpdateLocation(cached); err != nil {
				return nil, err
			}
		} else if stored := c.Location(); stored != nil {
			d.writeBack(ctx, c.ID(), *stored)
		}
		if c.Location() == nil {
			d.logger.DebugContext(ctx, "skipping courier without location", "courier_id", c.ID().String())
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

func (d *CourierDirectory) markedAvailable(ctx context.Context, courierID kernel.UUID) bool {
	marked, err := d.cache.IsAvailable(ctx, courierID)
	if err != nil {
		d.logger.WarnContext(ctx, "availability marker read failed, using store",
			"courier_id", courierID.String(), "error", err)
		return true
	}
	return marked
}

func (d *CourierDirectory) cachedLocation(ctx context.Context, courierID kernel.UUID) (courier.Location, bool) {
	location, err := d.cache.GetLocation(ctx, courierID)
	switch {
	case err == nil:
		return location, true
	case errors.Is(err, ports.ErrCacheMiss):
	default:
		d.logger.WarnContext(ctx, "location cache read failed, using store",
			"courier_id", courierID.String(), "error", err)
	}
	return courier.Location{}, false
}

func (d *CourierDirectory) writeBack(ctx context.Context, courierID kernel.UUID, location courier.Location) {
	if err := d.cache.SetLocation(ctx, courierID, location); err != nil {
		d.logger.WarnContext(ctx, "location cache write failed",
			"courier_id", courierID.String(), "error", err)
	}
}
