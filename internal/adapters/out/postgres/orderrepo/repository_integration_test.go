package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fooddispatch/internal/adapters/out/postgres/orderrepo"
	"fooddispatch/internal/adapters/out/postgres/pgtest"
	"fooddispatch/internal/adapters/out/postgres/vendorrepo"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/merchant"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// immediateTracker applies versions right away, like a unit of work without a transaction.
type immediateTracker struct {
	tracked int
}

func (t *immediateTracker) TrackAggregate(aggregate interface{ MarkPersisted(version int64) }, version int64) {
	t.tracked++
	aggregate.MarkPersisted(version)
}

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *orderrepo.GormOrderRepository
	tracker    *immediateTracker
	placedAt   time.Time
	vendorID   kernel.UUID
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	suite.database = pgtest.Start(suite.T())
	suite.placedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.database.Truncate(suite.T())
	suite.tracker = &immediateTracker{}
	suite.repository = orderrepo.NewGormOrderRepository(suite.database.DB, suite.tracker)
	suite.vendorID = suite.addVendor()
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.database.Stop(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ThenGet_RestoresTheWholeAggregate() {
	ctx := context.Background()
	placed := suite.newOrder(suite.placedAt)

	suite.Require().NoError(suite.repository.Add(ctx, placed))
	suite.Equal(int64(1), placed.Version())

	loaded, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)

	suite.True(loaded.ID().IsEqual(placed.ID()))
	suite.True(loaded.CustomerID().IsEqual(placed.CustomerID()))
	suite.Equal(order.Pending, loaded.Status())
	suite.Nil(loaded.CourierID())
	suite.True(decimal.RequireFromString("23.50").Equal(loaded.TotalAmount()))
	suite.Require().Len(loaded.Items(), 2)
	suite.Equal("Margherita", loaded.Items()[0].Name)
	suite.Equal("no basil", loaded.Items()[0].SpecialInstructions)
	suite.Equal("Cola", loaded.Items()[1].Name)
	suite.Equal(placed.DeliveryAddress().Street, loaded.DeliveryAddress().Street)
	suite.InDelta(40.05, loaded.DeliveryAddress().Coordinates.Latitude(), 1e-9)
	suite.Require().Len(loaded.History(), 1)
	suite.True(loaded.History()[0].Timestamp.Equal(suite.placedAt))
	suite.Equal(int64(1), loaded.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AppendsHistoryAndBumpsVersion() {
	ctx := context.Background()
	placed := suite.newOrder(suite.placedAt)
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	courierID := kernel.NewUUID()
	eta := suite.placedAt.Add(45 * time.Minute)
	suite.Require().NoError(placed.AssignCourier(courierID, eta, "system", "auto-assigned", suite.placedAt.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, placed))
	suite.Equal(int64(2), placed.Version())

	_, err := placed.Transition(order.Preparing, "vendor", "", suite.placedAt.Add(2*time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, placed))

	loaded, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Preparing, loaded.Status())
	suite.Require().NotNil(loaded.CourierID())
	suite.True(loaded.CourierID().IsEqual(courierID))
	suite.Require().NotNil(loaded.EstimatedDeliveryTime())
	suite.True(loaded.EstimatedDeliveryTime().Equal(eta))
	suite.Require().Len(loaded.History(), 3)
	suite.Equal(order.Confirmed, loaded.History()[1].Status)
	suite.Equal("auto-assigned", loaded.History()[1].Notes)
	suite.Equal(int64(3), loaded.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleCopy_ReturnsVersionConflict() {
	ctx := context.Background()
	placed := suite.newOrder(suite.placedAt)
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	first, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.AssignCourier(kernel.NewUUID(), suite.placedAt.Add(time.Hour), "system", "", suite.placedAt))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.AssignCourier(kernel.NewUUID(), suite.placedAt.Add(time.Hour), "system", "", suite.placedAt))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, ports.ErrVersionConflict)
	loaded, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)
	suite.True(loaded.CourierID().IsEqual(*first.CourierID()))
	suite.Len(loaded.History(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFound() {
	err := suite.repository.Update(context.Background(), suite.newOrder(suite.placedAt))

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListStalePending_ReturnsOnlyOldUnassignedOrders() {
	ctx := context.Background()
	cutoff := suite.placedAt

	oldest := suite.newOrder(cutoff.Add(-30 * time.Minute))
	old := suite.newOrder(cutoff.Add(-10 * time.Minute))
	fresh := suite.newOrder(cutoff.Add(time.Minute))
	confirmed := suite.newOrder(cutoff.Add(-20 * time.Minute))
	suite.Require().NoError(confirmed.AssignCourier(kernel.NewUUID(), cutoff, "system", "", cutoff.Add(-19*time.Minute)))
	cancelled := suite.newOrder(cutoff.Add(-20 * time.Minute))
	_, err := cancelled.Transition(order.Cancelled, "customer", "", cutoff.Add(-15*time.Minute))
	suite.Require().NoError(err)

	for _, o := range []*order.Order{fresh, old, confirmed, cancelled, oldest} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	stale, err := suite.repository.ListStalePending(ctx, cutoff, 10)
	suite.Require().NoError(err)
	suite.Require().Len(stale, 2)
	suite.True(stale[0].ID().IsEqual(oldest.ID()))
	suite.True(stale[1].ID().IsEqual(old.ID()))
	suite.Len(stale[0].Items(), 2)

	limited, err := suite.repository.ListStalePending(ctx, cutoff, 1)
	suite.Require().NoError(err)
	suite.Len(limited, 1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListStalePending_SkipsOrdersOfMissingVendors() {
	ctx := context.Background()
	cutoff := suite.placedAt

	kept := suite.newOrder(cutoff.Add(-10 * time.Minute))
	orphan := suite.newOrderFor(kernel.NewUUID(), kernel.NewUUID(), cutoff.Add(-20*time.Minute))
	suite.Require().NoError(suite.repository.Add(ctx, kept))
	suite.Require().NoError(suite.repository.Add(ctx, orphan))

	stale, err := suite.repository.ListStalePending(ctx, cutoff, 10)
	suite.Require().NoError(err)
	suite.Require().Len(stale, 1)
	suite.True(stale[0].ID().IsEqual(kept.ID()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByCustomerAndVendor_NewestFirst() {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	otherVendor := suite.addVendor()

	first := suite.newOrderFor(customerID, suite.vendorID, suite.placedAt)
	second := suite.newOrderFor(customerID, otherVendor, suite.placedAt.Add(time.Hour))
	stranger := suite.newOrderFor(kernel.NewUUID(), suite.vendorID, suite.placedAt.Add(2*time.Hour))
	for _, o := range []*order.Order{first, second, stranger} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	mine, err := suite.repository.ListByCustomer(ctx, customerID)
	suite.Require().NoError(err)
	suite.Require().Len(mine, 2)
	suite.True(mine[0].ID().IsEqual(second.ID()))
	suite.True(mine[1].ID().IsEqual(first.ID()))
	suite.Len(mine[0].Items(), 2)
	suite.Len(mine[0].History(), 1)

	vendorOrders, err := suite.repository.ListByVendor(ctx, suite.vendorID)
	suite.Require().NoError(err)
	suite.Require().Len(vendorOrders, 2)
	suite.True(vendorOrders[0].ID().IsEqual(stranger.ID()))
	suite.True(vendorOrders[1].ID().IsEqual(first.ID()))

	none, err := suite.repository.ListByCustomer(ctx, kernel.NewUUID())
	suite.Require().NoError(err)
	suite.NotNil(none)
	suite.Empty(none)
}

func (suite *OrderRepositoryIntegrationTestSuite) addVendor() kernel.UUID {
	address, err := kernel.NewAddress("5 Market Sq", "Springfield", "IL", "62701", kernel.MustCoordinates(40, -73))
	suite.Require().NoError(err)
	v, err := merchant.NewVendor(kernel.NewUUID(), "Luigi's", address)
	suite.Require().NoError(err)
	suite.Require().NoError(vendorrepo.NewGormVendorRepository(suite.database.DB).Add(context.Background(), v))
	return v.ID()
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(at time.Time) *order.Order {
	return suite.newOrderFor(kernel.NewUUID(), suite.vendorID, at)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrderFor(customerID, vendorID kernel.UUID, at time.Time) *order.Order {
	address, err := kernel.NewAddress("1 Main St", "Springfield", "IL", "62701", kernel.MustCoordinates(40.05, -73.02))
	suite.Require().NoError(err)
	pizza, err := order.NewItem("pizza", "Margherita", 2, decimal.RequireFromString("10.25"), "no basil")
	suite.Require().NoError(err)
	cola, err := order.NewItem("cola", "Cola", 1, decimal.RequireFromString("3.00"), "")
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), customerID, vendorID,
		[]order.Item{pizza, cola}, address, "customer", at)
	suite.Require().NoError(err)
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
