package orderrepo

import (
	"context"
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type persistable = interface{ MarkPersisted(version int64) }

// aggregateTracker receives the version each write produced. The unit of work
// applies it to the aggregate once the transaction commits.
type aggregateTracker interface {
	TrackAggregate(aggregate persistable, version int64)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items and first history entry.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewPersistenceError("add order", err)
	}

	r.tracker.TrackAggregate(aggregate, dto.Version)
	return nil
}

// Update writes the order if nobody changed it since it was loaded, then
// appends the history entries the table does not have yet.
// A stale aggregate yields ports.ErrVersionConflict.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"courier_id":              dto.CourierID,
			"status":                  dto.Status,
			"estimated_delivery_time": dto.EstimatedDeliveryTime,
			"updated_at":              dto.UpdatedAt,
			"version":                 dto.Version + 1,
		})
	if result.Error != nil {
		return errs.NewPersistenceError("update order", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missingOrConflict(ctx, aggregate.ID())
	}

	if len(dto.History) > 0 {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.History).Error
		if err != nil {
			return errs.NewPersistenceError("append order history", err)
		}
	}

	r.tracker.TrackAggregate(aggregate, dto.Version+1)
	return nil
}

// Get retrieves an order with its items and history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.Google()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return nil, errs.NewPersistenceError("get order", err)
	}

	return toDomain(dto)
}

// ListByCustomer returns the customer's orders, newest first.
func (r *GormOrderRepository) ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}
	return r.listNewestFirst(ctx, "customer_id = ?", customerID.Google())
}

// ListByVendor returns the vendor's orders, newest first.
func (r *GormOrderRepository) ListByVendor(ctx context.Context, vendorID kernel.UUID) ([]*order.Order, error) {
	if err := vendorID.Validate(); err != nil {
		return nil, err
	}
	return r.listNewestFirst(ctx, "vendor_id = ?", vendorID.Google())
}

func (r *GormOrderRepository) listNewestFirst(ctx context.Context, condition string, arg any) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.preloaded(ctx).Where(condition, arg).Order("created_at DESC").Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceError("list orders", err)
	}
	return toDomainAll(dtos)
}

// ListStalePending returns Pending orders without a courier created before
// olderThan, oldest first. Orders whose vendor row is gone are skipped.
func (r *GormOrderRepository) ListStalePending(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("status = ? AND courier_id IS NULL AND created_at < ?", order.Pending.String(), olderThan).
		Where("EXISTS (SELECT 1 FROM vendors v WHERE v.id = orders.vendor_id)").
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceError("list stale orders", err)
	}
	return toDomainAll(dtos)
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

func (r *GormOrderRepository) missingOrConflict(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Google()).Count(&count).Error; err != nil {
		return errs.NewPersistenceError("check order", err)
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return ports.ErrVersionConflict
}
