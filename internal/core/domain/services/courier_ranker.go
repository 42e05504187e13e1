package services

import (
	"slices"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
)

// RankedCourier is a candidate together with its distance to the pickup point.
type RankedCourier struct {
	Courier    *courier.Courier
	DistanceKm float64
}

// CourierRanker orders assignment candidates by straight-line distance to the
// vendor. It holds no state and is safe for concurrent use.
//
// Business rules:
//   - Couriers without a known location are skipped
//   - Closer couriers come first
//   - Equal distances are broken by courier ID, ascending, so that every
//     replica ranks the same input identically
//
// Example usage:
//
//	ranked := services.NewCourierRanker().Rank(vendor.PickupPoint(), candidates)
//	for _, rc := range ranked {
//	    // Try to reserve rc.Courier
//	}
type CourierRanker struct{}

// NewCourierRanker creates a new CourierRanker instance.
func NewCourierRanker() CourierRanker {
	return CourierRanker{}
}

// Rank returns the candidates sorted by distance to pickup. The input slice is
// not modified.
func (CourierRanker) Rank(pickup kernel.Coordinates, candidates []*courier.Courier) []RankedCourier {
	ranked := make([]RankedCourier, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.Location() == nil {
			continue
		}
		ranked = append(ranked, RankedCourier{
			Courier:    c,
			DistanceKm: c.Location().DistanceTo(pickup),
		})
	}

	slices.SortStableFunc(ranked, func(a, b RankedCourier) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		case a.Courier.ID().Less(b.Courier.ID()):
			return -1
		case b.Courier.ID().Less(a.Courier.ID()):
			return 1
		}
		return 0
	})

	return ranked
}
