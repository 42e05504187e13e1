package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"fooddispatch/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel for every rejected status change.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ─> Confirmed ─> Preparing ─> ReadyForPickup ─> PickedUp ─> InTransit ─> Delivered
//	   │           │            │              │               │           │
//	   └───────────┴────────────┴──────────────┴───────────────┴───────────┴──> Cancelled
//
// Delivered and Cancelled are terminal. Re-applying the current status is
// accepted as an idempotent no-op by Order.Transition.
type Status int

const (
	// Unknown catches uninitialized values; it is never a valid state.
	Unknown Status = iota
	Pending
	Confirmed
	Preparing
	ReadyForPickup
	PickedUp
	InTransit
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:        "Pending",
	Confirmed:      "Confirmed",
	Preparing:      "Preparing",
	ReadyForPickup: "ReadyForPickup",
	PickedUp:       "PickedUp",
	InTransit:      "InTransit",
	Delivered:      "Delivered",
	Cancelled:      "Cancelled",
}

// transitions is the single source of truth for permitted status changes.
var transitions = map[Status][]Status{
	Pending:        {Confirmed, Cancelled},
	Confirmed:      {Preparing, Cancelled},
	Preparing:      {ReadyForPickup, Cancelled},
	ReadyForPickup: {PickedUp, Cancelled},
	PickedUp:       {InTransit, Cancelled},
	InTransit:      {Delivered, Cancelled},
	Delivered:      nil,
	Cancelled:      nil,
}

// InvalidTransitionError describes a rejected change from one status to another.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ParseStatus maps a status name (case-insensitive) to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

// String implements fmt.Stringer. Invalid values render as "Unknown".
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

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// RequiresCourier reports whether an order in this status must carry a courier.
// Cancelled orders may or may not have one, depending on when they were cancelled.
func (s Status) RequiresCourier() bool {
	return s >= Confirmed && s <= Delivered
}

// ValidateTransition consults the transition table. Re-applying the current
// status is permitted; callers decide whether that records anything.
func (s Status) ValidateTransition(next Status) error {
	if err := errors.Join(s.Validate(), next.Validate()); err != nil {
		return err
	}
	if s == next || slices.Contains(transitions[s], next) {
		return nil
	}
	return &InvalidTransitionError{From: s, To: next}
}

// ValidateCanHaveCourier checks the coupling between status and courier assignment.
func (s Status) ValidateCanHaveCourier(hasCourier bool) error {
	switch {
	case s == Pending && hasCourier:
		return errs.NewValueIsInvalidErrorWithCause("courierId", fmt.Errorf("%s order cannot have a courier", s))
	case s.RequiresCourier() && !hasCourier:
		return errs.NewValueIsInvalidErrorWithCause("courierId", fmt.Errorf("%s order must have a courier", s))
	}
	return nil
}
