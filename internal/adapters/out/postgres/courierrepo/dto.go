// Package courierrepo maps the courier aggregate onto the couriers table.
//
// Status and current order columns are written here only on registration.
// Afterwards they change exclusively through the reservation guard, which
// issues conditional updates against the same table.
package courierrepo

import (
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO is a row of the couriers table. The location columns are all
// NULL until the first fix arrives.
type CourierDTO struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name           string      `gorm:"type:varchar(255);not null"`
	Status         string      `gorm:"type:varchar(32);not null;index:idx_couriers_availability,priority:1"`
	IsActive       bool        `gorm:"not null;default:true;index:idx_couriers_availability,priority:2"`
	CurrentOrderID *uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	Location       LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	Version        int64       `gorm:"not null"`
	CreatedAt      time.Time   `gorm:"type:timestamptz"`
	UpdatedAt      time.Time   `gorm:"type:timestamptz"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

// LocationDTO is the last known position of a courier.
type LocationDTO struct {
	Latitude  *float64
	Longitude *float64
	Timestamp *time.Time `gorm:"type:timestamptz"`
	Accuracy  *float64
	Speed     *float64
}

func fromDomain(c *courier.Courier) CourierDTO {
	var currentOrderID *uuid.UUID
	if id := c.CurrentOrderID(); id != nil {
		raw := id.Google()
		currentOrderID = &raw
	}

	return CourierDTO{
		ID:             c.ID().Google(),
		Name:           c.Name(),
		Status:         c.Status().String(),
		IsActive:       c.IsActive(),
		CurrentOrderID: currentOrderID,
		Location:       locationFromDomain(c.Location()),
		Version:        c.Version(),
	}
}

func locationFromDomain(l *courier.Location) LocationDTO {
	if l == nil {
		return LocationDTO{}
	}
	lat, lon := l.Coordinates().Latitude(), l.Coordinates().Longitude()
	ts, accuracy := l.Timestamp(), l.Accuracy()
	return LocationDTO{
		Latitude:  &lat,
		Longitude: &lon,
		Timestamp: &ts,
		Accuracy:  &accuracy,
		Speed:     l.Speed(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	status, err := courier.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var currentOrderID *kernel.UUID
	if dto.CurrentOrderID != nil {
		orderID, orderErr := kernel.UUIDFromGoogle(*dto.CurrentOrderID)
		if orderErr != nil {
			return nil, orderErr
		}
		currentOrderID = &orderID
	}

	location, err := locationToDomain(dto.Location)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(courier.RestoreParams{
		ID:             id,
		Name:           dto.Name,
		Status:         status,
		Location:       location,
		CurrentOrderID: currentOrderID,
		Active:         dto.IsActive,
		Version:        dto.Version,
	})
}

func locationToDomain(dto LocationDTO) (*courier.Location, error) {
	if dto.Latitude == nil || dto.Longitude == nil || dto.Timestamp == nil {
		return nil, nil //nolint:nilnil // a courier without a fix has no location
	}

	coordinates, err := kernel.NewCoordinates(*dto.Latitude, *dto.Longitude)
	if err != nil {
		return nil, err
	}

	var accuracy float64
	if dto.Accuracy != nil {
		accuracy = *dto.Accuracy
	}

	location, err := courier.NewLocation(coordinates, *dto.Timestamp, accuracy, dto.Speed)
	if err != nil {
		return nil, err
	}
	return &location, nil
}
