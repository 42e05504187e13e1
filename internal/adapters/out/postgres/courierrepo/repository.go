package courierrepo

import (
	"context"
	"errors"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type persistable = interface{ MarkPersisted(version int64) }

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(aggregate persistable, version int64)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add registers a new courier.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewPersistenceError("add courier", err)
	}

	r.tracker.TrackAggregate(aggregate, dto.Version)
	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Google()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("courier", id.String())
	}
	if err != nil {
		return nil, errs.NewPersistenceError("get courier", err)
	}

	return toDomain(dto)
}

// ListAvailable returns every active courier whose status is Available.
//
// Example:
//
//	available, err := repo.ListAvailable(ctx)
//	if err != nil {
//		return fmt.Errorf("failed to list couriers: %w", err)
//	}
//	for _, c := range available {
//		fmt.Printf("Available courier: %s\n", c.Name())
//	}
func (r *GormCourierRepository) ListAvailable(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_active = ?", courier.Available.String(), true).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceError("list available couriers", err)
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}

	return couriers, nil
}

// UpdateLocation writes the courier's position. The stored fix is only
// replaced by one that is not older, so reordered updates cannot move a
// courier back in time.
func (r *GormCourierRepository) UpdateLocation(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	location := locationFromDomain(aggregate.Location())
	if location.Timestamp == nil {
		return errs.NewValueIsRequiredError("location")
	}

	id := aggregate.ID().Google()
	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("id = ? AND (location_timestamp IS NULL OR location_timestamp <= ?)", id, *location.Timestamp).
		Updates(map[string]any{
			"location_latitude":  location.Latitude,
			"location_longitude": location.Longitude,
			"location_timestamp": location.Timestamp,
			"location_accuracy":  location.Accuracy,
			"location_speed":     location.Speed,
		})
	if result.Error != nil {
		return errs.NewPersistenceError("update courier location", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&CourierDTO{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return errs.NewPersistenceError("check courier", err)
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}
	return nil
}
