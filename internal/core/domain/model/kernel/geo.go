package kernel

import (
	"math"
	"time"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

const (
	pickupLead        = 15 * time.Minute
	deliveryBase      = 30 * time.Minute
	deliveryPerKmTime = 2 * time.Minute
)

// DistanceKm returns the great-circle distance between two points given in
// degrees, using the haversine formula. Inputs are not range-checked.
func DistanceKm(latA, lonA, latB, lonB float64) float64 {
	dLat := toRadians(latB - latA)
	dLon := toRadians(lonB - lonA)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(latA))*math.Cos(toRadians(latB))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// EstimatePickupETA is a fixed heuristic: fifteen minutes from now.
func EstimatePickupETA(now time.Time) time.Time {
	return now.Add(pickupLead)
}

// EstimateDeliveryETA is now + 30 minutes + 2 minutes per straight-line kilometre.
// It is a placeholder, not a routing estimate.
func EstimateDeliveryETA(now time.Time, distanceKm float64) time.Time {
	return now.Add(deliveryBase + time.Duration(distanceKm*float64(deliveryPerKmTime)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
