// Package reservation implements the reservation guard on top of the couriers
// table. Each operation is a single conditional UPDATE, so PostgreSQL's row
// lock decides between concurrent callers and exactly one of them sees a row
// affected.
package reservation

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

const (
	reserveSQL = `
		UPDATE couriers
		SET status = ?, current_order_id = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND status = ? AND current_order_id IS NULL AND is_active`

	releaseSQL = `
		UPDATE couriers
		SET status = ?, current_order_id = NULL, version = version + 1, updated_at = ?
		WHERE id = ? AND current_order_id = ?`

	setAvailabilitySQL = `
		UPDATE couriers
		SET status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND status <> ? AND current_order_id IS NULL`
)

// GormReservationGuard implements ports.ReservationGuard.
type GormReservationGuard struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormReservationGuard binds the guard to db, which may be a transaction.
func NewGormReservationGuard(db *gorm.DB) *GormReservationGuard {
	return &GormReservationGuard{db: db, now: time.Now}
}

// TryReserve makes the courier Busy with orderID if it is free.
func (g *GormReservationGuard) TryReserve(ctx context.Context, courierID, orderID kernel.UUID) error {
	result := g.db.WithContext(ctx).Exec(reserveSQL,
		courier.Busy.String(), orderID.Google(), g.now(),
		courierID.Google(), courier.Available.String(),
	)
	if result.Error != nil {
		return errs.NewPersistenceError("reserve courier", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	if err := g.ensureExists(ctx, courierID); err != nil {
		return err
	}
	return ports.ErrAlreadyReserved
}

// Release frees the courier if it still holds orderID. It is a no-op otherwise.
func (g *GormReservationGuard) Release(ctx context.Context, courierID, orderID kernel.UUID) error {
	result := g.db.WithContext(ctx).Exec(releaseSQL,
		courier.Available.String(), g.now(),
		courierID.Google(), orderID.Google(),
	)
	return errs.NewPersistenceError("release courier", result.Error)
}

// SetAvailability applies an externally driven status. A courier holding an
// order is refused with courier.ErrCourierIsBusy.
func (g *GormReservationGuard) SetAvailability(ctx context.Context, courierID kernel.UUID, status courier.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == courier.Busy {
		return courier.ErrBusyIsNotSettable
	}

	result := g.db.WithContext(ctx).Exec(setAvailabilitySQL,
		status.String(), g.now(),
		courierID.Google(), courier.Busy.String(),
	)
	if result.Error != nil {
		return errs.NewPersistenceError("set courier availability", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	if err := g.ensureExists(ctx, courierID); err != nil {
		return err
	}
	return courier.ErrCourierIsBusy
}

func (g *GormReservationGuard) ensureExists(ctx context.Context, courierID kernel.UUID) error {
	var count int64
	err := g.db.WithContext(ctx).Table("couriers").Where("id = ?", courierID.Google()).Count(&count).Error
	if err != nil {
		return errs.NewPersistenceError("check courier", err)
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("courier", courierID.String())
	}
	return nil
}
