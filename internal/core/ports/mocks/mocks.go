// Package mocks provides testify mocks for the ports interfaces.
package mocks

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// UnitOfWorkFactory mocks ports.UnitOfWorkFactory.
type UnitOfWorkFactory struct{ mock.Mock }

func (m *UnitOfWorkFactory) Create() ports.UnitOfWork {
	args := m.Called()
	return args.Get(0).(ports.UnitOfWork)
}

// UnitOfWork mocks ports.UnitOfWork.
type UnitOfWork struct{ mock.Mock }

func (m *UnitOfWork) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *UnitOfWork) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *UnitOfWork) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *UnitOfWork) CourierRepository() ports.CourierRepository {
	return m.Called().Get(0).(ports.CourierRepository)
}

func (m *UnitOfWork) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *UnitOfWork) VendorRepository() ports.VendorRepository {
	return m.Called().Get(0).(ports.VendorRepository)
}

func (m *UnitOfWork) ReservationGuard() ports.ReservationGuard {
	return m.Called().Get(0).(ports.ReservationGuard)
}

func (m *UnitOfWork) OutboxRepository() ports.OutboxRepository {
	return m.Called().Get(0).(ports.OutboxRepository)
}

// OrderRepository mocks ports.OrderRepository.
type OrderRepository struct{ mock.Mock }

func (m *OrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *OrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *OrderRepository) ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *OrderRepository) ListByVendor(ctx context.Context, vendorID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *OrderRepository) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

// CourierRepository mocks ports.CourierRepository.
type CourierRepository struct{ mock.Mock }

func (m *CourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *CourierRepository) ListAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

func (m *CourierRepository) UpdateLocation(ctx context.Context, c *courier.Courier) error {
	return m.Called(ctx, c).Error(0)
}

// VendorRepository mocks ports.VendorRepository.
type VendorRepository struct{ mock.Mock }

func (m *VendorRepository) Add(ctx context.Context, v *merchant.Vendor) error {
	return m.Called(ctx, v).Error(0)
}

func (m *VendorRepository) Get(ctx context.Context, id kernel.UUID) (*merchant.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchant.Vendor), args.Error(1)
}

func (m *VendorRepository) ListActive(ctx context.Context) ([]*merchant.Vendor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*merchant.Vendor), args.Error(1)
}

func (m *VendorRepository) UpdateStatus(ctx context.Context, v *merchant.Vendor) error {
	return m.Called(ctx, v).Error(0)
}

// ReservationGuard mocks ports.ReservationGuard.
type ReservationGuard struct{ mock.Mock }

func (m *ReservationGuard) TryReserve(ctx context.Context, courierID, orderID kernel.UUID) error {
	return m.Called(ctx, courierID, orderID).Error(0)
}

func (m *ReservationGuard) Release(ctx context.Context, courierID, orderID kernel.UUID) error {
	return m.Called(ctx, courierID, orderID).Error(0)
}

func (m *ReservationGuard) SetAvailability(ctx context.Context, courierID kernel.UUID, status courier.Status) error {
	return m.Called(ctx, courierID, status).Error(0)
}

// OutboxRepository mocks ports.OutboxRepository.
type OutboxRepository struct{ mock.Mock }

func (m *OutboxRepository) Add(ctx context.Context, message ports.OutboxMessage) error {
	return m.Called(ctx, message).Error(0)
}

func (m *OutboxRepository) ListUnsent(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxMessage), args.Error(1)
}

func (m *OutboxRepository) MarkSent(ctx context.Context, id kernel.UUID, sentAt time.Time) error {
	return m.Called(ctx, id, sentAt).Error(0)
}

func (m *OutboxRepository) MarkFailed(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// LocationCache mocks ports.LocationCache.
type LocationCache struct{ mock.Mock }

func (m *LocationCache) GetLocation(ctx context.Context, courierID kernel.UUID) (courier.Location, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return courier.Location{}, args.Error(1)
	}
	return args.Get(0).(courier.Location), args.Error(1)
}

func (m *LocationCache) SetLocation(ctx context.Context, courierID kernel.UUID, location courier.Location) error {
	return m.Called(ctx, courierID, location).Error(0)
}

func (m *LocationCache) IsAvailable(ctx context.Context, courierID kernel.UUID) (bool, error) {
	args := m.Called(ctx, courierID)
	return args.Bool(0), args.Error(1)
}

func (m *LocationCache) MarkAvailable(ctx context.Context, courierID kernel.UUID) error {
	return m.Called(ctx, courierID).Error(0)
}

func (m *LocationCache) ClearAvailable(ctx context.Context, courierID kernel.UUID) error {
	return m.Called(ctx, courierID).Error(0)
}

// AssignmentRequestPublisher mocks ports.AssignmentRequestPublisher.
type AssignmentRequestPublisher struct{ mock.Mock }

func (m *AssignmentRequestPublisher) PublishAssignmentRequest(ctx context.Context, request ports.AssignmentRequest) error {
	return m.Called(ctx, request).Error(0)
}

// EventPublisher mocks ports.EventPublisher.
type EventPublisher struct{ mock.Mock }

func (m *EventPublisher) PublishOrderCreated(ctx context.Context, event ports.OrderCreated) error {
	return m.Called(ctx, event).Error(0)
}

func (m *EventPublisher) PublishOrderUpdated(ctx context.Context, event ports.OrderUpdated) error {
	return m.Called(ctx, event).Error(0)
}

func (m *EventPublisher) PublishVendorStatusChanged(ctx context.Context, event ports.VendorStatusChanged) error {
	return m.Called(ctx, event).Error(0)
}

// RealtimeNotifier mocks ports.RealtimeNotifier.
type RealtimeNotifier struct{ mock.Mock }

func (m *RealtimeNotifier) SendToGroup(ctx context.Context, group, method string, payload any) error {
	return m.Called(ctx, group, method, payload).Error(0)
}

// OutboxSender mocks ports.OutboxSender.
type OutboxSender struct{ mock.Mock }

func (m *OutboxSender) Send(ctx context.Context, message ports.OutboxMessage) error {
	return m.Called(ctx, message).Error(0)
}
