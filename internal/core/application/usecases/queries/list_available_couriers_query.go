package queries

import (
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var (
	ErrListAvailableCouriersQueryIsNotConstructed = errors.New(
		"ListAvailableCouriersQuery must be created via NewListAvailableCouriersQuery constructor",
	)
)

// ListAvailableCouriersQuery lists active couriers that can take an order right now.
//
// Example:
//
//	query := NewListAvailableCouriersQuery()
//	handler := NewListAvailableCouriersQueryHandler(db)
//
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list couriers: %w", err)
//	}
type ListAvailableCouriersQuery struct {
	guard guard.ConstructorGuard
}

func NewListAvailableCouriersQuery() ListAvailableCouriersQuery {
	return ListAvailableCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ListAvailableCouriersQuery) Validate() error {
	return q.guard.Validate(ErrListAvailableCouriersQueryIsNotConstructed)
}

// AvailableCourierResponse is the read model of an available courier.
// Location fields are nil for couriers that never reported a position.
type AvailableCourierResponse struct {
	ID        kernel.UUID
	Name      string
	Latitude  *float64
	Longitude *float64
	LastSeen  *time.Time
}
