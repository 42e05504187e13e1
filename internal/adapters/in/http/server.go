// Package http exposes the dispatch use cases over a JSON API built on echo.
package http

import (
	"context"
	"net/http"
	"time"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/application/usecases/queries"
	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}
	CreateCourierHandler interface {
		Handle(ctx context.Context, cmd commands.CreateCourierCommand) error
	}
	ChangeCourierStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeCourierStatusCommand) error
	}
	UpdateCourierLocationHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCourierLocationCommand) error
	}
	CreateVendorHandler interface {
		Handle(ctx context.Context, cmd commands.CreateVendorCommand) error
	}
	ChangeVendorStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeVendorStatusCommand) (*merchant.Vendor, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error)
	}
	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]*queries.GetOrderQueryResponse, error)
	}
	GetCourierHandler interface {
		Handle(ctx context.Context, query queries.GetCourierQuery) (*queries.CourierResponse, error)
	}
	GetVendorHandler interface {
		Handle(ctx context.Context, query queries.GetVendorQuery) (*queries.VendorResponse, error)
	}
	ListVendorsHandler interface {
		Handle(ctx context.Context, query queries.ListVendorsQuery) ([]*queries.VendorResponse, error)
	}
	ListAvailableCouriersHandler interface {
		Handle(ctx context.Context, query queries.ListAvailableCouriersQuery) ([]queries.AvailableCourierResponse, error)
	}
	GetCourierLocationHandler interface {
		Handle(ctx context.Context, query queries.GetCourierLocationQuery) (*queries.CourierLocationResponse, error)
	}
)

// Handlers groups the use cases the server delegates to.
type Handlers struct {
	CreateOrder           CreateOrderHandler
	UpdateOrderStatus     UpdateOrderStatusHandler
	CreateCourier         CreateCourierHandler
	ChangeCourierStatus   ChangeCourierStatusHandler
	UpdateCourierLocation UpdateCourierLocationHandler
	CreateVendor          CreateVendorHandler
	ChangeVendorStatus    ChangeVendorStatusHandler

	GetOrder              GetOrderHandler
	ListOrders            ListOrdersHandler
	GetCourier            GetCourierHandler
	ListAvailableCouriers ListAvailableCouriersHandler
	GetCourierLocation    GetCourierLocationHandler
	GetVendor             GetVendorHandler
	ListVendors           ListVendorsHandler

	// Health reports whether the service can serve traffic. Nil means always healthy.
	Health func(ctx context.Context) error
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	gatherer prometheus.Gatherer
	now      func() time.Time
}

// NewServer creates a server. /metrics serves gatherer.
func NewServer(handlers Handlers, gatherer prometheus.Gatherer) *Server {
	return &Server{
		handlers: handlers,
		gatherer: gatherer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.GetHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := e.Group("/api/v1")
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/:id", s.GetOrder)
	v1.PUT("/orders/:id/status", s.UpdateOrderStatus)
	v1.GET("/orders/customer/:id", s.GetCustomerOrders)
	v1.GET("/orders/vendor/:id", s.GetVendorOrders)
	v1.POST("/couriers", s.CreateCourier)
	v1.GET("/couriers/available", s.GetAvailableCouriers)
	v1.GET("/couriers/:id", s.GetCourier)
	v1.PUT("/couriers/:id/status", s.ChangeCourierStatus)
	v1.POST("/couriers/:id/location", s.UpdateCourierLocation)
	v1.GET("/couriers/:id/location", s.GetCourierLocation)
	v1.POST("/vendors", s.CreateVendor)
	v1.GET("/vendors", s.GetVendors)
	v1.GET("/vendors/:id", s.GetVendor)
	v1.PUT("/vendors/:id/status", s.ChangeVendorStatus)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	if s.handlers.Health != nil {
		if err := s.handlers.Health(ctx.Request().Context()); err != nil {
			return ctx.JSON(http.StatusServiceUnavailable, Health{Status: "unavailable"})
		}
	}
	return ctx.JSON(http.StatusOK, Health{Status: "ok"})
}

// CreateOrder handles POST /api/v1/orders and queues the order for assignment.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	items := make([]order.Item, 0, len(body.Items))
	for _, item := range body.Items {
		domainItem, err := order.NewItem(item.ItemID, item.Name, item.Quantity, item.Price, item.SpecialInstructions)
		if err != nil {
			return badRequest(ctx, "Invalid order item: "+err.Error())
		}
		items = append(items, domainItem)
	}
	address, err := body.DeliveryAddress.toDomain()
	if err != nil {
		return badRequest(ctx, "Invalid delivery address: "+err.Error())
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), body.CustomerID, body.VendorID, items, address, body.PlacedBy)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}
	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, Created{ID: cmd.OrderID()})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.ParseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, orderFromQuery(result))
}

// GetCustomerOrders handles GET /api/v1/orders/customer/:id.
func (s *Server) GetCustomerOrders(ctx echo.Context) error {
	customerID, err := kernel.ParseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid customer id")
	}
	query, err := queries.NewListOrdersByCustomerQuery(customerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	return s.listOrders(ctx, query)
}

// GetVendorOrders handles GET /api/v1/orders/vendor/:id.
func (s *Server) GetVendorOrders(ctx echo.Context) error {
	vendorID, err := kernel.ParseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid vendor id")
	}
	query, err := queries.NewListOrdersByVendorQuery(vendorID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	return s.listOrders(ctx, query)
}

func (s *Server) listOrders(ctx echo.Context, query queries.ListOrdersQuery) error {
	orders, err := s.handlers.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err, "Failed to retrieve orders")
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = orderFromQuery(o)
	}
	return ctx.JSON(http.StatusOK, response)
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status and answers with
// the order as it stands after the change.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.ParseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	var body StatusChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	status, err := order.ParseStatus(body.Status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status, body.UpdatedBy, body.Notes)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	updated, err := s.handlers.UpdateOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err, "Failed to update order status")
	}

	return ctx.JSON(http.StatusOK, orderFromQuery(queries.NewOrderResponse(updated)))
}

// CreateCourier handles POST /api/v1/couriers. New couriers start Offline.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var body NewCourier
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateCourierCommand(body.Name)
	if err != nil {
		return badRequest(ctx, "Invalid courier data: "+err.Error())
	}
	if err = s.handlers.CreateCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err, "Failed to create courier")
	}

	return ctx.JSON(http.StatusCreated, Created{ID: cmd.CourierID()})
}

// GetAvailableCouriers handles GET /api/v1/couriers/available.
func (s *Server) GetAvailableCouriers(ctx echo.Context) error {
	couriers, err := s.handlers.ListAvailableCouriers.Handle(ctx.Request().Context(),
		queries.NewListAvailableCouriersQuery())
	if err != nil {
		return fail(ctx, err, "Failed to retrieve couriers")
	}

	response := make([]Courier, len(couriers))
	for i, c := range couriers {
		response[i] = Courier(c)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetCourier handles GET /api/v1/couriers/:id.
func (s *Server) GetCourier(ctx echo.Context) error {
	courierID, err := kernel.ParseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}
	query, err := queries.NewGetCourierQuery(courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.GetCourier.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err, "Failed to retrieve courier")
	}

	return ctx.JSON(http.StatusOK, CourierDetail(*result))
}

// ChangeCourierStatus handles PUT /api/v1/couriers/:id/status.
func (s *Server) ChangeCourierStatus(ctx echo.Context) error {
	courierID, err := kernel.ParseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}
	var body CourierStatus
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	status, err := courier.ParseStatus(body.Status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewChangeCourierStatusCommand(courierID, status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err = s.handlers.ChangeCourierStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err, "Failed to change courier status")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateCourierLocation handles POST /api/v1/couriers/:id/location.
// A report without a timestamp is stamped with the server time.
func (s *Server) UpdateCourierLocation(ctx echo.Context) error {
	courierID, err := kernel.ParseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}
	var body LocationReport
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	coordinates, err := kernel.NewCoordinates(body.Latitude, body.Longitude)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	timestamp := s.now()
	if body.Timestamp != nil {
		timestamp = body.Timestamp.UTC()
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(courierID, coordinates, body.Accuracy, body.Speed, timestamp)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err = s.handlers.UpdateCourierLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err, "Failed to update courier location")
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GetCourierLocation handles GET /api/v1/couriers/:id/location.
func (s *Server) GetCourierLocation(ctx echo.Context) error {
	courierID, err := kernel.ParseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}
	query, err := queries.NewGetCourierLocationQuery(courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	location, err := s.handlers.GetCourierLocation.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err, "Failed to retrieve courier location")
	}

	return ctx.JSON(http.StatusOK, Location(*location))
}

// CreateVendor handles POST /api/v1/vendors.
func (s *Server) CreateVendor(ctx echo.Context) error {
	var body NewVendor
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	address, err := body.Address.toDomain()
	if err != nil {
		return badRequest(ctx, "Invalid address: "+err.Error())
	}

	cmd, err := commands.NewCreateVendorCommand(body.Name, address)
	if err != nil {
		return badRequest(ctx, "Invalid vendor data: "+err.Error())
	}
	if err = s.handlers.CreateVendor.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err, "Failed to create vendor")
	}

	return ctx.JSON(http.StatusCreated, Created{ID: cmd.VendorID()})
}

// GetVendors handles GET /api/v1/vendors.
func (s *Server) GetVendors(ctx echo.Context) error {
	vendors, err := s.handlers.ListVendors.Handle(ctx.Request().Context(), queries.NewListVendorsQuery())
	if err != nil {
		return fail(ctx, err, "Failed to retrieve vendors")
	}

	response := make([]Vendor, len(vendors))
	for i, v := range vendors {
		response[i] = vendorFromQuery(v)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetVendor handles GET /api/v1/vendors/:id.
func (s *Server) GetVendor(ctx echo.Context) error {
	vendorID, err := kernel.ParseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid vendor id")
	}
	query, err := queries.NewGetVendorQuery(vendorID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.GetVendor.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err, "Failed to retrieve vendor")
	}

	return ctx.JSON(http.StatusOK, vendorFromQuery(result))
}

// ChangeVendorStatus handles PUT /api/v1/vendors/:id/status.
func (s *Server) ChangeVendorStatus(ctx echo.Context) error {
	vendorID, err := kernel.ParseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid vendor id")
	}
	var body VendorStatusChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	status, err := merchant.ParseStatus(body.Status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewChangeVendorStatusCommand(vendorID, status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	updated, err := s.handlers.ChangeVendorStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err, "Failed to change vendor status")
	}

	return ctx.JSON(http.StatusOK, vendorFromQuery(queries.NewVendorResponse(updated)))
}
