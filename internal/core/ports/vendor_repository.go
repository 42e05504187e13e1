package ports

import (
	"context"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/merchant"
)

// VendorRepository defines the persistence contract for vendors.
type VendorRepository interface {
	Add(ctx context.Context, aggregate *merchant.Vendor) error

	// Get retrieves a vendor; a missing vendor yields errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*merchant.Vendor, error)
	// ListActive returns every active vendor ordered by name.
	ListActive(ctx context.Context) ([]*merchant.Vendor, error)
	// UpdateStatus persists the vendor status only.
	UpdateStatus(ctx context.Context, aggregate *merchant.Vendor) error
}
