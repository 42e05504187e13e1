// Package queries contains read operations for retrieving system state.
// Queries return read models shaped for the HTTP layer and never change state.
package queries

import (
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order with its items and status history.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	response, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse is the read model of an order.
type GetOrderQueryResponse struct {
	ID                    kernel.UUID
	CustomerID            kernel.UUID
	VendorID              kernel.UUID
	CourierID             *kernel.UUID
	Status                string
	TotalAmount           decimal.Decimal
	DeliveryAddress       kernel.Address
	Items                 []OrderItemResponse
	History               []StatusHistoryResponse
	CreatedAt             time.Time
	UpdatedAt             time.Time
	EstimatedDeliveryTime *time.Time
}

type OrderItemResponse struct {
	ItemID              string
	Name                string
	Quantity            int
	Price               decimal.Decimal
	SpecialInstructions string
}

type StatusHistoryResponse struct {
	Status    string
	Timestamp time.Time
	UpdatedBy string
	Notes     string
}
