package commands

import (
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"
)

// assignmentRequestFor builds the message that asks the engine to dispatch o
// from pickup.
func assignmentRequestFor(o *order.Order, pickup kernel.Coordinates) ports.AssignmentRequest {
	delivery := o.DeliveryAddress().Coordinates
	return ports.AssignmentRequest{
		OrderID:           o.ID(),
		VendorID:          o.VendorID(),
		VendorLatitude:    pickup.Latitude(),
		VendorLongitude:   pickup.Longitude(),
		DeliveryLatitude:  delivery.Latitude(),
		DeliveryLongitude: delivery.Longitude(),
		Priority:          ports.DefaultPriority,
	}
}
