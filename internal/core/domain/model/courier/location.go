package courier

import (
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

// ErrLocationIsNotConstructed is returned when using a zero Location value.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError("location must be created via NewLocation")

// Location is a courier position fix reported by the courier app.
type Location struct {
	coordinates kernel.Coordinates
	timestamp   time.Time
	accuracy    float64
	speed       *float64
	guard       guard.ConstructorGuard
}

// NewLocation validates a position fix.
//
// Parameters:
//   - coordinates: validated latitude/longitude
//   - timestamp: when the fix was taken (required)
//   - accuracy: horizontal accuracy in metres (non-negative)
//   - speed: optional ground speed in m/s (non-negative when present)
func NewLocation(coordinates kernel.Coordinates, timestamp time.Time, accuracy float64, speed *float64) (Location, error) {
	var result []error
	result = append(result, coordinates.Validate())
	if timestamp.IsZero() {
		result = append(result, errs.NewValueIsRequiredError("timestamp"))
	}
	if accuracy < 0 {
		result = append(result, errs.NewValueIsOutOfRangeError("accuracy", accuracy, 0, "∞"))
	}
	if speed != nil && *speed < 0 {
		result = append(result, errs.NewValueIsOutOfRangeError("speed", *speed, 0, "∞"))
	}
	if err := errors.Join(result...); err != nil {
		return Location{}, err
	}

	l := Location{
		coordinates: coordinates,
		timestamp:   timestamp,
		accuracy:    accuracy,
		guard:       guard.NewConstructorGuard(),
	}
	if speed != nil {
		v := *speed
		l.speed = &v
	}
	return l, nil
}

// Validate reports whether the value was built by NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Coordinates() kernel.Coordinates { return l.coordinates }
func (l Location) Timestamp() time.Time            { return l.timestamp }
func (l Location) Accuracy() float64               { return l.accuracy }

// Speed returns the reported speed, or nil when the app did not send one.
func (l Location) Speed() *float64 {
	if l.speed == nil {
		return nil
	}
	v := *l.speed
	return &v
}

// DistanceTo returns the straight-line distance in kilometres to target.
func (l Location) DistanceTo(target kernel.Coordinates) float64 {
	return l.coordinates.DistanceKm(target)
}
