// Package orderrepo maps the order aggregate onto the orders, order_items and
// order_status_history tables.
package orderrepo

import (
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is a row of the orders table. Items and history live in their own
// tables and are loaded with Preload.
type OrderDTO struct {
	ID                    uuid.UUID          `gorm:"type:uuid;primaryKey"`
	CustomerID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	VendorID              uuid.UUID          `gorm:"type:uuid;not null;index"`
	CourierID             *uuid.UUID         `gorm:"type:uuid;index"`
	Status                string             `gorm:"type:varchar(32);not null;index"`
	TotalAmount           decimal.Decimal    `gorm:"type:numeric(12,2);not null"`
	Delivery              AddressDTO         `gorm:"embedded;embeddedPrefix:delivery_"`
	EstimatedDeliveryTime *time.Time         `gorm:"type:timestamptz"`
	CreatedAt             time.Time          `gorm:"type:timestamptz;not null;index"`
	UpdatedAt             time.Time          `gorm:"type:timestamptz;not null"`
	Version               int64              `gorm:"not null"`
	Items                 []ItemDTO          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History               []StatusHistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is the delivery address embedded in the orders table.
type AddressDTO struct {
	Street    string  `gorm:"type:varchar(255);not null"`
	City      string  `gorm:"type:varchar(128)"`
	State     string  `gorm:"type:varchar(64)"`
	ZipCode   string  `gorm:"type:varchar(16)"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
}

// ItemDTO is one order line. Lines are written once, with the order.
type ItemDTO struct {
	OrderID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position            int             `gorm:"primaryKey"`
	ItemID              string          `gorm:"type:varchar(64);not null"`
	Name                string          `gorm:"type:varchar(255);not null"`
	Quantity            int             `gorm:"not null"`
	Price               decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SpecialInstructions string          `gorm:"type:text"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

// StatusHistoryDTO is one entry of the append-only status history.
// (order_id, seq) identifies an entry so re-inserting known entries is a no-op.
type StatusHistoryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey"`
	Status    string    `gorm:"type:varchar(32);not null"`
	Timestamp time.Time `gorm:"type:timestamptz;not null"`
	UpdatedBy string    `gorm:"type:varchar(255);not null"`
	Notes     string    `gorm:"type:text"`
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Google()

	var courierID *uuid.UUID
	if c := o.CourierID(); c != nil {
		raw := c.Google()
		courierID = &raw
	}

	items := make([]ItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, ItemDTO{
			OrderID:             id,
			Position:            i,
			ItemID:              item.ItemID,
			Name:                item.Name,
			Quantity:            item.Quantity,
			Price:               item.Price,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	address := o.DeliveryAddress()
	return OrderDTO{
		ID:          id,
		CustomerID:  o.CustomerID().Google(),
		VendorID:    o.VendorID().Google(),
		CourierID:   courierID,
		Status:      o.Status().String(),
		TotalAmount: o.TotalAmount(),
		Delivery: AddressDTO{
			Street:    address.Street,
			City:      address.City,
			State:     address.State,
			ZipCode:   address.ZipCode,
			Latitude:  address.Coordinates.Latitude(),
			Longitude: address.Coordinates.Longitude(),
		},
		EstimatedDeliveryTime: o.EstimatedDeliveryTime(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
		Version:               o.Version(),
		Items:                 items,
		History:               historyFromDomain(id, o.History()),
	}
}

func historyFromDomain(orderID uuid.UUID, history []order.HistoryEntry) []StatusHistoryDTO {
	dtos := make([]StatusHistoryDTO, 0, len(history))
	for i, entry := range history {
		dtos = append(dtos, StatusHistoryDTO{
			OrderID:   orderID,
			Seq:       i,
			Status:    entry.Status.String(),
			Timestamp: entry.Timestamp,
			UpdatedBy: entry.UpdatedBy,
			Notes:     entry.Notes,
		})
	}
	return dtos
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromGoogle(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromGoogle(dto.VendorID)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		c, courierErr := kernel.UUIDFromGoogle(*dto.CourierID)
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &c
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	coordinates, err := kernel.NewCoordinates(dto.Delivery.Latitude, dto.Delivery.Longitude)
	if err != nil {
		return nil, err
	}
	address, err := kernel.NewAddress(dto.Delivery.Street, dto.Delivery.City, dto.Delivery.State,
		dto.Delivery.ZipCode, coordinates)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, item := range dto.Items {
		items = append(items, order.Item{
			ItemID:              item.ItemID,
			Name:                item.Name,
			Quantity:            item.Quantity,
			Price:               item.Price,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, entry := range dto.History {
		s, statusErr := order.ParseStatus(entry.Status)
		if statusErr != nil {
			return nil, statusErr
		}
		history = append(history, order.HistoryEntry{
			Status:    s,
			Timestamp: entry.Timestamp,
			UpdatedBy: entry.UpdatedBy,
			Notes:     entry.Notes,
		})
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:                    id,
		CustomerID:            customerID,
		VendorID:              vendorID,
		CourierID:             courierID,
		Items:                 items,
		TotalAmount:           dto.TotalAmount,
		Status:                status,
		DeliveryAddress:       address,
		CreatedAt:             dto.CreatedAt,
		UpdatedAt:             dto.UpdatedAt,
		EstimatedDeliveryTime: dto.EstimatedDeliveryTime,
		History:               history,
		Version:               dto.Version,
	})
}
