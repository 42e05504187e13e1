package postgres

import (
	"fooddispatch/internal/adapters/out/postgres/courierrepo"
	"fooddispatch/internal/adapters/out/postgres/orderrepo"
	"fooddispatch/internal/adapters/out/postgres/outboxrepo"
	"fooddispatch/internal/adapters/out/postgres/vendorrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&vendorrepo.VendorDTO{},
		&courierrepo.CourierDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.StatusHistoryDTO{},
		&outboxrepo.MessageDTO{},
	)
}
