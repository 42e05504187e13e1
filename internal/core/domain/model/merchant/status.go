package merchant

import (
	"fmt"
	"strings"

	"fooddispatch/internal/pkg/errs"
)

// Status tells whether a vendor is taking orders. Online and Busy vendors
// accept orders; Offline vendors do not.
type Status int

const (
	Unknown Status = iota
	Online
	Busy
	Offline
)

var statusNames = map[Status]string{
	Online:  "Online",
	Busy:    "Busy",
	Offline: "Offline",
}

// ParseStatus maps a status name (case-insensitive) to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid vendor status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid vendor status", int(s)))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}
