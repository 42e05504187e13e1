package queries

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"
)

// CourierResponse is the read model of a courier. Location fields are nil
// until the courier reports a position.
type CourierResponse struct {
	ID             kernel.UUID
	Name           string
	Status         string
	IsActive       bool
	CurrentOrderID *kernel.UUID
	Latitude       *float64
	Longitude      *float64
	LastSeen       *time.Time
}

type GetCourierQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetCourierQueryHandler(uowFactory ports.UnitOfWorkFactory) GetCourierQueryHandler {
	return GetCourierQueryHandler{uowFactory: uowFactory}
}

// Handle returns errs.ErrObjectNotFound when the courier does not exist.
func (h GetCourierQueryHandler) Handle(ctx context.Context, query GetCourierQuery) (*CourierResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	c, err := h.uowFactory.Create().CourierRepository().Get(ctx, query.CourierID())
	if err != nil {
		return nil, err
	}

	response := &CourierResponse{
		ID:             c.ID(),
		Name:           c.Name(),
		Status:         c.Status().String(),
		IsActive:       c.IsActive(),
		CurrentOrderID: c.CurrentOrderID(),
	}
	if location := c.Location(); location != nil {
		lat, lon, seen := location.Coordinates().Latitude(), location.Coordinates().Longitude(), location.Timestamp()
		response.Latitude, response.Longitude, response.LastSeen = &lat, &lon, &seen
	}
	return response, nil
}
