package queries

import (
	"context"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
)

// CourierLocator resolves the last known location of a courier.
// directory.CourierDirectory satisfies it, serving from the cache first.
type CourierLocator interface {
	GetLocation(ctx context.Context, courierID kernel.UUID) (*courier.Location, error)
}

type GetCourierLocationQueryHandler struct {
	locator CourierLocator
}

func NewGetCourierLocationQueryHandler(locator CourierLocator) GetCourierLocationQueryHandler {
	return GetCourierLocationQueryHandler{locator: locator}
}

// Handle returns errs.ErrObjectNotFound for unknown couriers and for couriers
// that never reported a location.
func (h GetCourierLocationQueryHandler) Handle(
	ctx context.Context,
	query GetCourierLocationQuery,
) (*CourierLocationResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	location, err := h.locator.GetLocation(ctx, query.CourierID())
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, errs.NewObjectNotFoundError("location", query.CourierID())
	}

	return &CourierLocationResponse{
		CourierID: query.CourierID(),
		Latitude:  location.Coordinates().Latitude(),
		Longitude: location.Coordinates().Longitude(),
		Accuracy:  location.Accuracy(),
		Speed:     location.Speed(),
		Timestamp: location.Timestamp(),
	}, nil
}
