package queries

import (
	"context"

	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"
)

type ListOrdersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListOrdersQueryHandler(uowFactory ports.UnitOfWorkFactory) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{uowFactory: uowFactory}
}

// Handle returns an empty slice when nothing matches.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	repository := h.uowFactory.Create().OrderRepository()
	var (
		orders []*order.Order
		err    error
	)
	if query.CustomerID() != nil {
		orders, err = repository.ListByCustomer(ctx, *query.CustomerID())
	} else {
		orders, err = repository.ListByVendor(ctx, *query.VendorID())
	}
	if err != nil {
		return nil, err
	}

	result := make([]*GetOrderQueryResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, NewOrderResponse(o))
	}
	return result, nil
}
