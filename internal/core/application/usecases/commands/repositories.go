// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fooddispatch/internal/core/domain/model/courier"
)

// Collaborators of the command handlers that are not ports of their own.
type (
	// CandidateSource lists couriers that may take an order, each with a known location.
	// Implemented by directory.CourierDirectory.
	CandidateSource interface {
		Candidates(ctx context.Context) ([]*courier.Courier, error)
	}

	// AssignmentMetrics records the outcome of assignment attempts.
	// Implemented by metrics.Dispatch.
	AssignmentMetrics interface {
		ObserveAssignment(outcome string)
		ReservationConflict()
		Compensation()
	}
)

// Assignment outcomes reported to AssignmentMetrics.
const (
	OutcomeAssigned    = "assigned"
	OutcomeNoCandidate = "no_candidate"
	OutcomeNotPending  = "not_pending"
	OutcomeFailed      = "failed"
)

type nopMetrics struct{}

func (nopMetrics) ObserveAssignment(string) {}
func (nopMetrics) ReservationConflict()     {}
func (nopMetrics) Compensation()            {}
