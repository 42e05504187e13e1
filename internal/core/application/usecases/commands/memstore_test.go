package commands_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"
)

// memStore is an in-memory store with the same conditional-write semantics as
// the postgres adapters: version-guarded order updates and a compare-and-set
// reservation guard. Transactions are not modelled; every write is immediate.
type memStore struct {
	mu       sync.Mutex
	orders   map[kernel.UUID]order.RestoreParams
	couriers map[kernel.UUID]courier.RestoreParams
	vendors  map[kernel.UUID]*merchant.Vendor
	outbox   []ports.OutboxMessage
}

func newMemStore() *memStore {
	return &memStore{
		orders:   map[kernel.UUID]order.RestoreParams{},
		couriers: map[kernel.UUID]courier.RestoreParams{},
		vendors:  map[kernel.UUID]*merchant.Vendor{},
	}
}

func orderSnapshot(o *order.Order) order.RestoreParams {
	return order.RestoreParams{
		ID:                    o.ID(),
		CustomerID:            o.CustomerID(),
		VendorID:              o.VendorID(),
		CourierID:             o.CourierID(),
		Items:                 o.Items(),
		TotalAmount:           o.TotalAmount(),
		Status:                o.Status(),
		DeliveryAddress:       o.DeliveryAddress(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
		EstimatedDeliveryTime: o.EstimatedDeliveryTime(),
		History:               o.History(),
		Version:               o.Version(),
	}
}

func courierSnapshot(c *courier.Courier) courier.RestoreParams {
	return courier.RestoreParams{
		ID:             c.ID(),
		Name:           c.Name(),
		Status:         c.Status(),
		Location:       c.Location(),
		CurrentOrderID: c.CurrentOrderID(),
		Active:         c.IsActive(),
		Version:        c.Version(),
	}
}

func (s *memStore) Create() ports.UnitOfWork { return memUoW{s} }

func (s *memStore) orderByID(id kernel.UUID) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := order.RestoreOrder(s.orders[id])
	if err != nil {
		panic(err)
	}
	return o
}

func (s *memStore) courierByID(id kernel.UUID) *courier.Courier {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := courier.RestoreCourier(s.couriers[id])
	if err != nil {
		panic(err)
	}
	return c
}

type memUoW struct{ s *memStore }

func (u memUoW) Begin(context.Context) error    { return nil }
func (u memUoW) Commit(context.Context) error   { return nil }
func (u memUoW) Rollback(context.Context) error { return nil }

func (u memUoW) OrderRepository() ports.OrderRepository     { return memOrders{u.s} }
func (u memUoW) CourierRepository() ports.CourierRepository { return memCouriers{u.s} }
func (u memUoW) VendorRepository() ports.VendorRepository   { return memVendors{u.s} }
func (u memUoW) ReservationGuard() ports.ReservationGuard   { return memGuard{u.s} }
func (u memUoW) OutboxRepository() ports.OutboxRepository   { return memOutbox{u.s} }

type memOrders struct{ s *memStore }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.MarkPersisted(1)
	r.s.orders[o.ID()] = orderSnapshot(o)
	return nil
}

func (r memOrders) Update(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	if stored.Version != o.Version() {
		return ports.ErrVersionConflict
	}
	o.MarkPersisted(o.Version() + 1)
	r.s.orders[o.ID()] = orderSnapshot(o)
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.s.mu.Lock()
	p, ok := r.s.orders[id]
	r.s.mu.Unlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return order.RestoreOrder(p)
}

func (r memOrders) ListStalePending(_ context.Context, olderThan time.Time, limit int) ([]*order.Order, error) {
	r.s.mu.Lock()
	var params []order.RestoreParams
	for _, p := range r.s.orders {
		_, hasVendor := r.s.vendors[p.VendorID]
		if p.Status == order.Pending && p.CreatedAt.Before(olderThan) && hasVendor {
			params = append(params, p)
		}
	}
	r.s.mu.Unlock()

	sort.Slice(params, func(i, j int) bool { return params[i].CreatedAt.Before(params[j].CreatedAt) })
	if len(params) > limit {
		params = params[:limit]
	}
	result := make([]*order.Order, 0, len(params))
	for _, p := range params {
		o, err := order.RestoreOrder(p)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

func (r memOrders) ListByCustomer(_ context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	return r.newestFirst(func(p order.RestoreParams) bool { return p.CustomerID.IsEqual(customerID) })
}

func (r memOrders) ListByVendor(_ context.Context, vendorID kernel.UUID) ([]*order.Order, error) {
	return r.newestFirst(func(p order.RestoreParams) bool { return p.VendorID.IsEqual(vendorID) })
}

func (r memOrders) newestFirst(match func(order.RestoreParams) bool) ([]*order.Order, error) {
	r.s.mu.Lock()
	var params []order.RestoreParams
	for _, p := range r.s.orders {
		if match(p) {
			params = append(params, p)
		}
	}
	r.s.mu.Unlock()

	sort.Slice(params, func(i, j int) bool { return params[i].CreatedAt.After(params[j].CreatedAt) })
	result := make([]*order.Order, 0, len(params))
	for _, p := range params {
		o, err := order.RestoreOrder(p)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

type memCouriers struct{ s *memStore }

func (r memCouriers) Add(_ context.Context, c *courier.Courier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.couriers[c.ID()] = courierSnapshot(c)
	return nil
}

func (r memCouriers) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	r.s.mu.Lock()
	p, ok := r.s.couriers[id]
	r.s.mu.Unlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("courier", id)
	}
	return courier.RestoreCourier(p)
}

func (r memCouriers) ListAvailable(_ context.Context) ([]*courier.Courier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*courier.Courier
	for _, p := range r.s.couriers {
		if p.Status == courier.Available && p.Active {
			c, err := courier.RestoreCourier(p)
			if err != nil {
				return nil, err
			}
			result = append(result, c)
		}
	}
	return result, nil
}

func (r memCouriers) UpdateLocation(_ context.Context, c *courier.Courier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.couriers[c.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("courier", c.ID())
	}
	p.Location = c.Location()
	r.s.couriers[c.ID()] = p
	return nil
}

type memVendors struct{ s *memStore }

func (r memVendors) Add(_ context.Context, v *merchant.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vendors[v.ID()] = v
	return nil
}

func (r memVendors) Get(_ context.Context, id kernel.UUID) (*merchant.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vendors[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("vendor", id)
	}
	return v, nil
}

func (r memVendors) ListActive(_ context.Context) ([]*merchant.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*merchant.Vendor
	for _, v := range r.s.vendors {
		if v.IsActive() {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

func (r memVendors) UpdateStatus(_ context.Context, v *merchant.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendors[v.ID()]; !ok {
		return errs.NewObjectNotFoundError("vendor", v.ID())
	}
	r.s.vendors[v.ID()] = v
	return nil
}

// memGuard applies the courier's own Reserve, Release and SetAvailability to
// the stored snapshot under the store lock.
type memGuard struct{ s *memStore }

func (g memGuard) apply(courierID kernel.UUID, change func(c *courier.Courier) error) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	p, ok := g.s.couriers[courierID]
	if !ok {
		return errs.NewObjectNotFoundError("courier", courierID)
	}
	c, err := courier.RestoreCourier(p)
	if err != nil {
		return err
	}
	if err = change(c); err != nil {
		return err
	}
	c.MarkPersisted(p.Version + 1)
	g.s.couriers[courierID] = courierSnapshot(c)
	return nil
}

func (g memGuard) TryReserve(_ context.Context, courierID, orderID kernel.UUID) error {
	return g.apply(courierID, func(c *courier.Courier) error {
		if err := c.Reserve(orderID); err != nil {
			return ports.ErrAlreadyReserved
		}
		return nil
	})
}

func (g memGuard) Release(_ context.Context, courierID, orderID kernel.UUID) error {
	err := g.apply(courierID, func(c *courier.Courier) error {
		if !c.Release(orderID) {
			return errNothingToRelease
		}
		return nil
	})
	if errors.Is(err, errNothingToRelease) || errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	return err
}

var errNothingToRelease = errors.New("courier does not hold the order")

func (g memGuard) SetAvailability(_ context.Context, courierID kernel.UUID, status courier.Status) error {
	return g.apply(courierID, func(c *courier.Courier) error {
		return c.SetAvailability(status)
	})
}

type memOutbox struct{ s *memStore }

func (r memOutbox) Add(_ context.Context, message ports.OutboxMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox = append(r.s.outbox, message)
	return nil
}

func (r memOutbox) ListUnsent(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []ports.OutboxMessage
	for _, m := range r.s.outbox {
		if m.SentAt == nil && len(result) < limit {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r memOutbox) MarkSent(_ context.Context, id kernel.UUID, sentAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID.IsEqual(id) {
			r.s.outbox[i].SentAt = &sentAt
		}
	}
	return nil
}

func (r memOutbox) MarkFailed(_ context.Context, id kernel.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID.IsEqual(id) {
			r.s.outbox[i].Attempts++
		}
	}
	return nil
}

// storeCandidates lists available couriers straight from the store.
type storeCandidates struct{ s *memStore }

func (c storeCandidates) Candidates(ctx context.Context) ([]*courier.Courier, error) {
	return memCouriers(c).ListAvailable(ctx)
}

// nopSender accepts every message.
type nopSender struct{}

func (nopSender) Send(context.Context, ports.OutboxMessage) error { return nil }

// memCache keeps locations and availability markers in maps. Markers never expire.
type memCache struct {
	mu        sync.Mutex
	locations map[kernel.UUID]courier.Location
	markers   map[kernel.UUID]bool
}

func newMemCache() *memCache {
	return &memCache{
		locations: map[kernel.UUID]courier.Location{},
		markers:   map[kernel.UUID]bool{},
	}
}

func (c *memCache) GetLocation(_ context.Context, courierID kernel.UUID) (courier.Location, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locations[courierID]
	if !ok {
		return courier.Location{}, ports.ErrCacheMiss
	}
	return l, nil
}

func (c *memCache) SetLocation(_ context.Context, courierID kernel.UUID, location courier.Location) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locations[courierID] = location
	return nil
}

func (c *memCache) IsAvailable(_ context.Context, courierID kernel.UUID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.markers[courierID], nil
}

func (c *memCache) MarkAvailable(_ context.Context, courierID kernel.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers[courierID] = true
	return nil
}

func (c *memCache) ClearAvailable(_ context.Context, courierID kernel.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.markers, courierID)
	return nil
}

// groupNotice is one realtime message recorded by recordingNotifier.
type groupNotice struct {
	group   string
	method  string
	payload any
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []groupNotice
}

func (n *recordingNotifier) SendToGroup(_ context.Context, group, method string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, groupNotice{group: group, method: method, payload: payload})
	return nil
}

func (n *recordingNotifier) sent() []groupNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]groupNotice(nil), n.notices...)
}
