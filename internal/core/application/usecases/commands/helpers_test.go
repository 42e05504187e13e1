package commands_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	now         = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	vendorPoint = kernel.MustCoordinates(40.0, -73.0)
	homePoint   = kernel.MustCoordinates(40.05, -73.02)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func fixedLifecycle() services.OrderLifecycle {
	return services.NewOrderLifecycle(func() time.Time { return now })
}

func newVendor(t *testing.T) *merchant.Vendor {
	t.Helper()
	address, err := kernel.NewAddress("5 Market Sq", "Springfield", "IL", "62701", vendorPoint)
	require.NoError(t, err)
	v, err := merchant.NewVendor(kernel.NewUUID(), "Luigi's", address)
	require.NoError(t, err)
	return v
}

func newPendingOrder(t *testing.T, vendorID kernel.UUID) *order.Order {
	t.Helper()
	address, err := kernel.NewAddress("1 Main St", "Springfield", "IL", "62701", homePoint)
	require.NoError(t, err)
	item, err := order.NewItem("pizza", "Margherita", 2, decimal.RequireFromString("9.50"), "")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), vendorID,
		[]order.Item{item}, address, "customer", now.Add(-10*time.Minute))
	require.NoError(t, err)
	return o
}

func newConfirmedOrder(t *testing.T, vendorID kernel.UUID) *order.Order {
	t.Helper()
	o := newPendingOrder(t, vendorID)
	require.NoError(t, o.AssignCourier(kernel.NewUUID(), now.Add(time.Hour), "system", "", now.Add(-5*time.Minute)))
	return o
}

func courierAt(t *testing.T, name string, lat, lon float64) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name)
	require.NoError(t, err)
	require.NoError(t, c.SetAvailability(courier.Available))
	l, err := courier.NewLocation(kernel.MustCoordinates(lat, lon), now.Add(-time.Minute), 5, nil)
	require.NoError(t, err)
	_, err = c.UpdateLocation(l)
	require.NoError(t, err)
	return c
}

// recordingMetrics counts engine outcomes.
type recordingMetrics struct {
	mu            sync.Mutex
	outcomes      map[string]int
	conflicts     int
	compensations int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{outcomes: map[string]int{}}
}

func (m *recordingMetrics) ObserveAssignment(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *recordingMetrics) ReservationConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *recordingMetrics) Compensation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compensations++
}

// staticCandidates serves a fixed candidate list.
type staticCandidates struct {
	couriers []*courier.Courier
	err      error
	calls    int
}

func (s *staticCandidates) Candidates(context.Context) ([]*courier.Courier, error) {
	s.calls++
	return s.couriers, s.err
}

// mockSet bundles the port mocks behind a single unit of work.
type mockSet struct {
	factory  *mocks.UnitOfWorkFactory
	uow      *mocks.UnitOfWork
	orders   *mocks.OrderRepository
	couriers *mocks.CourierRepository
	vendors  *mocks.VendorRepository
	guard    *mocks.ReservationGuard
	outbox   *mocks.OutboxRepository
}

func newMockSet() mockSet {
	s := mockSet{
		factory:  new(mocks.UnitOfWorkFactory),
		uow:      new(mocks.UnitOfWork),
		orders:   new(mocks.OrderRepository),
		couriers: new(mocks.CourierRepository),
		vendors:  new(mocks.VendorRepository),
		guard:    new(mocks.ReservationGuard),
		outbox:   new(mocks.OutboxRepository),
	}
	s.factory.On("Create").Return(s.uow).Maybe()
	s.uow.On("OrderRepository").Return(s.orders).Maybe()
	s.uow.On("CourierRepository").Return(s.couriers).Maybe()
	s.uow.On("VendorRepository").Return(s.vendors).Maybe()
	s.uow.On("ReservationGuard").Return(s.guard).Maybe()
	s.uow.On("OutboxRepository").Return(s.outbox).Maybe()
	return s
}

func (s mockSet) assertExpectations(t *testing.T) {
	t.Helper()
	s.uow.AssertExpectations(t)
	s.orders.AssertExpectations(t)
	s.couriers.AssertExpectations(t)
	s.vendors.AssertExpectations(t)
	s.guard.AssertExpectations(t)
	s.outbox.AssertExpectations(t)
}
