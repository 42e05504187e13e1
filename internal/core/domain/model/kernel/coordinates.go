package kernel

import (
	"errors"
	"fmt"

	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

const (
	// MinLatitude and MaxLatitude bound a valid latitude in degrees.
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	// MinLongitude and MaxLongitude bound a valid longitude in degrees.
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrCoordinatesAreNotConstructed is returned when using a zero Coordinates value.
var ErrCoordinatesAreNotConstructed = errs.NewValueIsRequiredError(
	"coordinates must be created via NewCoordinates")

// Coordinates is a validated (latitude, longitude) pair in degrees.
// Input arriving from HTTP or Kafka is checked here once; the geo functions
// below trust their arguments.
type Coordinates struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewCoordinates validates latitude ∈ [-90, 90] and longitude ∈ [-180, 180].
func NewCoordinates(latitude, longitude float64) (Coordinates, error) {
	c := Coordinates{guard: guard.NewConstructorGuard()}

	if err := errors.Join(c.setLatitude(latitude), c.setLongitude(longitude)); err != nil {
		return Coordinates{}, err
	}

	return c, nil
}

// MustCoordinates is NewCoordinates for fixtures. It panics on invalid input.
func MustCoordinates(latitude, longitude float64) Coordinates {
	c, err := NewCoordinates(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate reports whether the value was built by NewCoordinates.
func (c Coordinates) Validate() error {
	return c.guard.Validate(ErrCoordinatesAreNotConstructed)
}

// Latitude returns the latitude in degrees.
func (c Coordinates) Latitude() float64 {
	return c.latitude
}

// Longitude returns the longitude in degrees.
func (c Coordinates) Longitude() float64 {
	return c.longitude
}

// DistanceKm is the great-circle distance to other.
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	return DistanceKm(c.latitude, c.longitude, other.latitude, other.longitude)
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%.6f,%.6f)", c.latitude, c.longitude)
}

func (c *Coordinates) setLatitude(latitude float64) error {
	if latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}
	c.latitude = latitude
	return nil
}

func (c *Coordinates) setLongitude(longitude float64) error {
	if longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}
	c.longitude = longitude
	return nil
}
