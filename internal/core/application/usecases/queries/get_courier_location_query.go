package queries

import (
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var (
	ErrGetCourierLocationQueryIsNotConstructed = errors.New(
		"GetCourierLocationQuery must be created via NewGetCourierLocationQuery constructor",
	)
)

// GetCourierLocationQuery asks for the freshest known position of a courier.
type GetCourierLocationQuery struct {
	courierID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetCourierLocationQuery(courierID kernel.UUID) (GetCourierLocationQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierLocationQuery{}, err
	}
	return GetCourierLocationQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierLocationQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierLocationQueryIsNotConstructed)
}

func (q GetCourierLocationQuery) CourierID() kernel.UUID { return q.courierID }

type CourierLocationResponse struct {
	CourierID kernel.UUID
	Latitude  float64
	Longitude float64
	Accuracy  float64
	Speed     *float64
	Timestamp time.Time
}
