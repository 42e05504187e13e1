// Package vendorrepo persists vendors, whose address is the pickup point of
// their orders.
package vendorrepo

import (
	"context"
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorDTO is a row of the vendors table.
type VendorDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Street    string    `gorm:"type:varchar(255);not null"`
	City      string    `gorm:"type:varchar(128)"`
	State     string    `gorm:"type:varchar(64)"`
	ZipCode   string    `gorm:"type:varchar(16)"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	Status    string    `gorm:"type:varchar(16);not null;default:'Online'"`
	IsActive  bool      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"type:timestamptz"`
}

func (VendorDTO) TableName() string {
	return "vendors"
}

// GormVendorRepository implements ports.VendorRepository using GORM.
type GormVendorRepository struct {
	db *gorm.DB
}

func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

func (r *GormVendorRepository) Add(ctx context.Context, aggregate *merchant.Vendor) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	address := aggregate.Address()
	dto := VendorDTO{
		ID:        aggregate.ID().Google(),
		Name:      aggregate.Name(),
		Street:    address.Street,
		City:      address.City,
		State:     address.State,
		ZipCode:   address.ZipCode,
		Latitude:  address.Coordinates.Latitude(),
		Longitude: address.Coordinates.Longitude(),
		Status:    aggregate.Status().String(),
		IsActive:  aggregate.IsActive(),
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewPersistenceError("add vendor", err)
	}
	return nil
}

func (r *GormVendorRepository) Get(ctx context.Context, id kernel.UUID) (*merchant.Vendor, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VendorDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Google()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("vendor", id.String())
	}
	if err != nil {
		return nil, errs.NewPersistenceError("get vendor", err)
	}

	return toDomain(dto)
}

// ListActive returns active vendors ordered by name.
func (r *GormVendorRepository) ListActive(ctx context.Context) ([]*merchant.Vendor, error) {
	var dtos []VendorDTO
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceError("list vendors", err)
	}

	vendors := make([]*merchant.Vendor, 0, len(dtos))
	for _, dto := range dtos {
		v, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, nil
}

// UpdateStatus writes the status column only.
func (r *GormVendorRepository) UpdateStatus(ctx context.Context, aggregate *merchant.Vendor) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&VendorDTO{}).
		Where("id = ?", aggregate.ID().Google()).
		Update("status", aggregate.Status().String())
	if result.Error != nil {
		return errs.NewPersistenceError("update vendor status", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("vendor", aggregate.ID().String())
	}
	return nil
}

func toDomain(dto VendorDTO) (*merchant.Vendor, error) {
	coordinates, err := kernel.NewCoordinates(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}
	address, err := kernel.NewAddress(dto.Street, dto.City, dto.State, dto.ZipCode, coordinates)
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	status, err := merchant.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return merchant.RestoreVendor(vendorID, dto.Name, address, status, dto.IsActive)
}
