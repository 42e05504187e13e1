package courier

import (
	"fmt"
	"strings"

	"fooddispatch/internal/pkg/errs"
)

// Status represents the availability of a courier.
//
// Offline, Available and OnBreak are set by the courier app. Busy is entered
// only through a reservation and left only when the order is released.
type Status int

const (
	Unknown Status = iota
	Offline
	Available
	Busy
	OnBreak
)

var statusNames = map[Status]string{
	Offline:   "Offline",
	Available: "Available",
	Busy:      "Busy",
	OnBreak:   "OnBreak",
}

// ParseStatus maps a status name (case-insensitive) to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid courier status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid courier status", int(s)))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
