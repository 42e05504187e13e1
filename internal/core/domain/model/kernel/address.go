package kernel

import (
	"errors"
	"strings"

	"fooddispatch/internal/pkg/errs"
)

// Address is a postal address with the coordinates used for dispatch.
type Address struct {
	Street      string
	City        string
	State       string
	ZipCode     string
	Coordinates Coordinates
}

// NewAddress trims the textual parts and requires a street and valid coordinates.
func NewAddress(street, city, state, zipCode string, coordinates Coordinates) (Address, error) {
	a := Address{
		Street:      strings.TrimSpace(street),
		City:        strings.TrimSpace(city),
		State:       strings.TrimSpace(state),
		ZipCode:     strings.TrimSpace(zipCode),
		Coordinates: coordinates,
	}
	if err := a.Validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// Validate checks the street and the coordinates.
func (a Address) Validate() error {
	var streetErr error
	if a.Street == "" {
		streetErr = errs.NewValueIsRequiredError("street")
	}
	return errors.Join(streetErr, a.Coordinates.Validate())
}
