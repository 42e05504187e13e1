package http

import (
	"time"

	"fooddispatch/internal/core/application/usecases/queries"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Address struct {
	Street    string  `json:"street"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zipCode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (a Address) toDomain() (kernel.Address, error) {
	coordinates, err := kernel.NewCoordinates(a.Latitude, a.Longitude)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.NewAddress(a.Street, a.City, a.State, a.ZipCode, coordinates)
}

func addressFromDomain(a kernel.Address) Address {
	return Address{
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		ZipCode:   a.ZipCode,
		Latitude:  a.Coordinates.Latitude(),
		Longitude: a.Coordinates.Longitude(),
	}
}

type OrderItem struct {
	ItemID              string          `json:"itemId"`
	Name                string          `json:"name"`
	Quantity            int             `json:"quantity"`
	Price               decimal.Decimal `json:"price"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
}

type NewOrder struct {
	CustomerID      kernel.UUID `json:"customerId"`
	VendorID        kernel.UUID `json:"vendorId"`
	Items           []OrderItem `json:"items"`
	DeliveryAddress Address     `json:"deliveryAddress"`
	PlacedBy        string      `json:"placedBy"`
}

type Created struct {
	ID kernel.UUID `json:"id"`
}

type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updatedBy"`
	Notes     string    `json:"notes,omitempty"`
}

type Order struct {
	ID                    kernel.UUID          `json:"id"`
	CustomerID            kernel.UUID          `json:"customerId"`
	VendorID              kernel.UUID          `json:"vendorId"`
	CourierID             *kernel.UUID         `json:"courierId,omitempty"`
	Status                string               `json:"status"`
	TotalAmount           decimal.Decimal      `json:"totalAmount"`
	DeliveryAddress       Address              `json:"deliveryAddress"`
	Items                 []OrderItem          `json:"items"`
	StatusHistory         []StatusHistoryEntry `json:"statusHistory"`
	CreatedAt             time.Time            `json:"createdAt"`
	UpdatedAt             time.Time            `json:"updatedAt"`
	EstimatedDeliveryTime *time.Time           `json:"estimatedDeliveryTime,omitempty"`
}

func orderFromQuery(r *queries.GetOrderQueryResponse) Order {
	o := Order{
		ID:                    r.ID,
		CustomerID:            r.CustomerID,
		VendorID:              r.VendorID,
		CourierID:             r.CourierID,
		Status:                r.Status,
		TotalAmount:           r.TotalAmount,
		DeliveryAddress:       addressFromDomain(r.DeliveryAddress),
		Items:                 make([]OrderItem, 0, len(r.Items)),
		StatusHistory:         make([]StatusHistoryEntry, 0, len(r.History)),
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		EstimatedDeliveryTime: r.EstimatedDeliveryTime,
	}
	for _, item := range r.Items {
		o.Items = append(o.Items, OrderItem(item))
	}
	for _, entry := range r.History {
		o.StatusHistory = append(o.StatusHistory, StatusHistoryEntry(entry))
	}
	return o
}

type StatusChange struct {
	Status    string `json:"status"`
	UpdatedBy string `json:"updatedBy"`
	Notes     string `json:"notes"`
}

type NewCourier struct {
	Name string `json:"name"`
}

type Courier struct {
	ID        kernel.UUID `json:"id"`
	Name      string      `json:"name"`
	Latitude  *float64    `json:"latitude,omitempty"`
	Longitude *float64    `json:"longitude,omitempty"`
	LastSeen  *time.Time  `json:"lastSeen,omitempty"`
}

// CourierDetail is one courier with its last stored position.
type CourierDetail struct {
	ID             kernel.UUID  `json:"id"`
	Name           string       `json:"name"`
	Status         string       `json:"status"`
	IsActive       bool         `json:"isActive"`
	CurrentOrderID *kernel.UUID `json:"currentOrderId,omitempty"`
	Latitude       *float64     `json:"latitude,omitempty"`
	Longitude      *float64     `json:"longitude,omitempty"`
	LastSeen       *time.Time   `json:"lastSeen,omitempty"`
}

type CourierStatus struct {
	Status string `json:"status"`
}

type LocationReport struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Accuracy  float64    `json:"accuracy"`
	Speed     *float64   `json:"speed,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type Location struct {
	CourierID kernel.UUID `json:"courierId"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Accuracy  float64     `json:"accuracy"`
	Speed     *float64    `json:"speed,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type NewVendor struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

type Vendor struct {
	ID                kernel.UUID `json:"id"`
	Name              string      `json:"name"`
	Address           Address     `json:"address"`
	Status            string      `json:"status"`
	IsActive          bool        `json:"isActive"`
	IsAcceptingOrders bool        `json:"isAcceptingOrders"`
}

func vendorFromQuery(r *queries.VendorResponse) Vendor {
	return Vendor{
		ID:                r.ID,
		Name:              r.Name,
		Address:           addressFromDomain(r.Address),
		Status:            r.Status,
		IsActive:          r.IsActive,
		IsAcceptingOrders: r.IsAcceptingOrders,
	}
}

type VendorStatusChange struct {
	Status string `json:"status"`
}

type Health struct {
	Status string `json:"status"`
}
