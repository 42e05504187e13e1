package queries

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListAvailableCouriersQueryHandler reads the couriers table directly, bypassing the aggregate.
type ListAvailableCouriersQueryHandler struct {
	db *gorm.DB
}

func NewListAvailableCouriersQueryHandler(db *gorm.DB) ListAvailableCouriersQueryHandler {
	return ListAvailableCouriersQueryHandler{db: db}
}

// Handle returns available couriers sorted by name, then id.
func (h ListAvailableCouriersQueryHandler) Handle(
	ctx context.Context,
	query ListAvailableCouriersQuery,
) ([]AvailableCourierResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]AvailableCourierResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			location_latitude,
			location_longitude,
			location_timestamp
		FROM couriers
		WHERE status = ? AND is_active = true
		ORDER BY name, id
	`, courier.Available.String()).Rows()
	if err != nil {
		return nil, errs.NewPersistenceError("list available couriers", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			response AvailableCourierResponse
			id       uuid.UUID
			lastSeen *time.Time
		)
		if err = rows.Scan(&id, &response.Name, &response.Latitude, &response.Longitude, &lastSeen); err != nil {
			return nil, errs.NewPersistenceError("scan available courier", err)
		}

		courierID, idErr := kernel.UUIDFromGoogle(id)
		if idErr != nil {
			return nil, idErr
		}
		response.ID = courierID
		if lastSeen != nil {
			utc := lastSeen.UTC()
			response.LastSeen = &utc
		}
		couriers = append(couriers, response)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewPersistenceError("list available couriers", err)
	}

	return couriers, nil
}
