package ports

import (
	"time"

	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// DefaultPriority is applied to assignment requests that carry none.
const DefaultPriority = 1

// AssignmentRequest asks the engine to find a courier for an order.
// It is delivered at least once.
type AssignmentRequest struct {
	OrderID           kernel.UUID `json:"orderId"`
	VendorID          kernel.UUID `json:"vendorId"`
	VendorLatitude    float64     `json:"vendorLatitude"`
	VendorLongitude   float64     `json:"vendorLongitude"`
	DeliveryLatitude  float64     `json:"deliveryLatitude"`
	DeliveryLongitude float64     `json:"deliveryLongitude"`
	Priority          int         `json:"priority"`
}

// AddressPayload is the wire form of an address.
type AddressPayload struct {
	Street    string  `json:"street"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zipCode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewAddressPayload converts a domain address.
func NewAddressPayload(a kernel.Address) AddressPayload {
	return AddressPayload{
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		ZipCode:   a.ZipCode,
		Latitude:  a.Coordinates.Latitude(),
		Longitude: a.Coordinates.Longitude(),
	}
}

// DispatchOutcome announces a successful assignment.
type DispatchOutcome struct {
	OrderID               kernel.UUID    `json:"orderId"`
	CustomerID            kernel.UUID    `json:"customerId"`
	VendorID              kernel.UUID    `json:"vendorId"`
	CourierID             kernel.UUID    `json:"courierId"`
	CourierName           string         `json:"courierName"`
	PickupAddress         AddressPayload `json:"pickupAddress"`
	DeliveryAddress       AddressPayload `json:"deliveryAddress"`
	EstimatedPickupTime   time.Time      `json:"estimatedPickupTime"`
	EstimatedDeliveryTime time.Time      `json:"estimatedDeliveryTime"`
}

// OrderCreated announces a newly placed order.
type OrderCreated struct {
	OrderID         kernel.UUID     `json:"orderId"`
	CustomerID      kernel.UUID     `json:"customerId"`
	VendorID        kernel.UUID     `json:"vendorId"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DeliveryAddress AddressPayload  `json:"deliveryAddress"`
	ItemCount       int             `json:"itemCount"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// VendorStatusChanged announces that a vendor started or stopped taking orders.
type VendorStatusChanged struct {
	VendorID   kernel.UUID `json:"vendorId"`
	VendorName string      `json:"vendorName"`
	OldStatus  string      `json:"oldStatus"`
	NewStatus  string      `json:"newStatus"`
	Timestamp  time.Time   `json:"timestamp"`
}

// OrderUpdated announces a status change of an order.
type OrderUpdated struct {
	OrderID    kernel.UUID  `json:"orderId"`
	CustomerID kernel.UUID  `json:"customerId"`
	CourierID  *kernel.UUID `json:"courierId,omitempty"`
	Status     string       `json:"status"`
	UpdatedBy  string       `json:"updatedBy"`
	Notes      string       `json:"notes,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// Realtime methods pushed to client groups.
const (
	RealtimeOrderStatusUpdated     = "OrderStatusUpdated"
	RealtimeDeliveryLocationUpdate = "DeliveryLocationUpdated"
	RealtimeOrderDispatched        = "OrderDispatched"
	RealtimeOrderAssigned          = "OrderAssigned"
	RealtimeNewOrder               = "NewOrder"
	RealtimeVendorStatusChanged    = "VendorStatusChanged"
)

// AdminGroup is the realtime group of admin dashboards.
const AdminGroup = "admins"

// OrderGroup names the realtime group of clients following an order.
func OrderGroup(orderID kernel.UUID) string {
	return "order-" + orderID.String()
}

// CourierGroup names the realtime group of a courier's devices.
func CourierGroup(courierID kernel.UUID) string {
	return "courier-" + courierID.String()
}

// VendorGroup names the realtime group of a vendor's terminals.
func VendorGroup(vendorID kernel.UUID) string {
	return "vendor-" + vendorID.String()
}

// LocationUpdate is the realtime payload sent while a courier is on delivery.
type LocationUpdate struct {
	CourierID kernel.UUID `json:"deliveryPersonId"`
	OrderID   kernel.UUID `json:"orderId"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Timestamp time.Time   `json:"timestamp"`
}

// StatusUpdate is the realtime payload sent to a customer on order changes.
type StatusUpdate struct {
	OrderID   kernel.UUID `json:"orderId"`
	Status    string      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewOrderNotice is the realtime payload sent to a vendor when an order is placed.
type NewOrderNotice struct {
	OrderID     kernel.UUID     `json:"orderId"`
	CustomerID  kernel.UUID     `json:"customerId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// VendorStatusNotice is the realtime payload sent to admin dashboards.
type VendorStatusNotice struct {
	VendorID   kernel.UUID `json:"vendorId"`
	VendorName string      `json:"vendorName"`
	Status     string      `json:"status"`
}
