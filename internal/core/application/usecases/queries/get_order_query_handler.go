package queries

import (
	"context"

	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"
)

// GetOrderQueryHandler loads an order through the repository, outside any transaction.
type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{uowFactory: uowFactory}
}

// Handle returns errs.ErrObjectNotFound when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	return NewOrderResponse(o), nil
}

// NewOrderResponse projects an order aggregate onto the read model.
func NewOrderResponse(o *order.Order) *GetOrderQueryResponse {
	response := &GetOrderQueryResponse{
		ID:                    o.ID(),
		CustomerID:            o.CustomerID(),
		VendorID:              o.VendorID(),
		CourierID:             o.CourierID(),
		Status:                o.Status().String(),
		TotalAmount:           o.TotalAmount(),
		DeliveryAddress:       o.DeliveryAddress(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
		EstimatedDeliveryTime: o.EstimatedDeliveryTime(),
	}
	for _, item := range o.Items() {
		response.Items = append(response.Items, OrderItemResponse{
			ItemID:              item.ItemID,
			Name:                item.Name,
			Quantity:            item.Quantity,
			Price:               item.Price,
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	for _, entry := range o.History() {
		response.History = append(response.History, StatusHistoryResponse{
			Status:    entry.Status.String(),
			Timestamp: entry.Timestamp,
			UpdatedBy: entry.UpdatedBy,
			Notes:     entry.Notes,
		})
	}

	return response
}
