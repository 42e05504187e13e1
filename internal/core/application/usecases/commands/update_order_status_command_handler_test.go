package commands_test

import (
	"errors"
	"testing"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type statusFixture struct {
	mockSet
	cache    *mocks.LocationCache
	events   *mocks.EventPublisher
	realtime *mocks.RealtimeNotifier
	handler  commands.UpdateOrderStatusCommandHandler
}

func newStatusFixture() statusFixture {
	f := statusFixture{
		mockSet:  newMockSet(),
		cache:    new(mocks.LocationCache),
		events:   new(mocks.EventPublisher),
		realtime: new(mocks.RealtimeNotifier),
	}
	f.handler = commands.NewUpdateOrderStatusCommandHandler(
		f.factory, f.cache, f.events, f.realtime, fixedLifecycle(), discardLogger())
	return f
}

func statusCommand(t *testing.T, orderID kernel.UUID, status order.Status) commands.UpdateOrderStatusCommand {
	t.Helper()
	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status, "courier-app", "note")
	require.NoError(t, err)
	return cmd
}

func inTransitOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newConfirmedOrder(t, kernel.NewUUID())
	for _, s := range []order.Status{order.Preparing, order.ReadyForPickup, order.PickedUp, order.InTransit} {
		_, err := o.Transition(s, "vendor", "", now)
		require.NoError(t, err)
	}
	return o
}

func TestNewUpdateOrderStatusCommand(t *testing.T) {
	_, err := commands.NewUpdateOrderStatusCommand(kernel.NewUUID(), order.Unknown, "x", "")
	require.Error(t, err)

	var cmd commands.UpdateOrderStatusCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrUpdateOrderStatusCommandIsNotConstructed)
}

func TestUpdateOrderStatusCommandHandler_Handle(t *testing.T) {
	t.Run("forward move is persisted and announced", func(t *testing.T) {
		ctx := t.Context()
		f := newStatusFixture()
		o := newConfirmedOrder(t, kernel.NewUUID())

		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			f.orders.On("Update", ctx, o).Return(nil).Once(),
			f.uow.On("Commit", ctx).Return(nil).Once(),
			f.uow.On("Rollback", ctx).Return(errTxDone).Once(),
		)
		f.events.On("PublishOrderUpdated", ctx, mock.MatchedBy(func(e ports.OrderUpdated) bool {
			return e.OrderID.IsEqual(o.ID()) && e.Status == "Preparing" &&
				e.UpdatedBy == "courier-app" && e.Notes == "note" && e.Timestamp.Equal(now)
		})).Return(nil).Once()
		f.realtime.On("SendToGroup", ctx, ports.OrderGroup(o.ID()), ports.RealtimeOrderStatusUpdated,
			ports.StatusUpdate{OrderID: o.ID(), Status: "Preparing", Timestamp: now}).Return(nil).Once()

		updated, err := f.handler.Handle(ctx, statusCommand(t, o.ID(), order.Preparing))

		require.NoError(t, err)
		assert.Same(t, o, updated)
		assert.Equal(t, order.Preparing, updated.Status())
		f.assertExpectations(t)
		f.events.AssertExpectations(t)
		f.realtime.AssertExpectations(t)
		f.guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivery releases the courier in the same transaction", func(t *testing.T) {
		ctx := t.Context()
		f := newStatusFixture()
		o := inTransitOrder(t)
		courierID := *o.CourierID()

		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			f.orders.On("Update", ctx, o).Return(nil).Once(),
			f.guard.On("Release", ctx, courierID, o.ID()).Return(nil).Once(),
			f.uow.On("Commit", ctx).Return(nil).Once(),
			f.uow.On("Rollback", ctx).Return(errTxDone).Once(),
		)
		f.cache.On("MarkAvailable", ctx, courierID).Return(nil).Once()
		f.events.On("PublishOrderUpdated", ctx, mock.Anything).Return(nil).Once()
		f.realtime.On("SendToGroup", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		updated, err := f.handler.Handle(ctx, statusCommand(t, o.ID(), order.Delivered))

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, updated.Status())
		f.assertExpectations(t)
		f.cache.AssertExpectations(t)
	})

	t.Run("cancelling a pending order has no courier to release", func(t *testing.T) {
		ctx := t.Context()
		f := newStatusFixture()
		o := newPendingOrder(t, kernel.NewUUID())

		f.uow.On("Begin", ctx).Return(nil).Once()
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		f.orders.On("Update", ctx, o).Return(nil).Once()
		f.uow.On("Commit", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(errTxDone).Once()
		f.events.On("PublishOrderUpdated", ctx, mock.Anything).Return(nil).Once()
		f.realtime.On("SendToGroup", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		_, err := f.handler.Handle(ctx, statusCommand(t, o.ID(), order.Cancelled))
		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		f.guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "MarkAvailable", mock.Anything, mock.Anything)
	})

	t.Run("re-applying the current status writes nothing", func(t *testing.T) {
		ctx := t.Context()
		f := newStatusFixture()
		o := newConfirmedOrder(t, kernel.NewUUID())
		before := len(o.History())

		f.uow.On("Begin", ctx).Return(nil).Once()
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()

		unchanged, err := f.handler.Handle(ctx, statusCommand(t, o.ID(), order.Confirmed))
		require.NoError(t, err)
		assert.Same(t, o, unchanged)
		assert.Len(t, o.History(), before)
		f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
		f.events.AssertNotCalled(t, "PublishOrderUpdated", mock.Anything, mock.Anything)
	})

	t.Run("invalid transition leaves the order untouched", func(t *testing.T) {
		ctx := t.Context()
		f := newStatusFixture()
		o := newConfirmedOrder(t, kernel.NewUUID())

		f.uow.On("Begin", ctx).Return(nil).Once()
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()

		updated, err := f.handler.Handle(ctx, statusCommand(t, o.ID(), order.Delivered))

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Nil(t, updated)
		assert.Equal(t, order.Confirmed, o.Status())
		f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("release failure aborts the transaction", func(t *testing.T) {
		ctx := t.Context()
		f := newStatusFixture()
		o := inTransitOrder(t)
		releaseErr := errors.New("deadlock detected")

		f.uow.On("Begin", ctx).Return(nil).Once()
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		f.orders.On("Update", ctx, o).Return(nil).Once()
		f.guard.On("Release", ctx, *o.CourierID(), o.ID()).Return(releaseErr).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()

		_, err := f.handler.Handle(ctx, statusCommand(t, o.ID(), order.Delivered))

		require.ErrorIs(t, err, releaseErr)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
		f.events.AssertNotCalled(t, "PublishOrderUpdated", mock.Anything, mock.Anything)
	})

	t.Run("notification failures are tolerated", func(t *testing.T) {
		ctx := t.Context()
		f := newStatusFixture()
		o := inTransitOrder(t)

		f.uow.On("Begin", ctx).Return(nil).Once()
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		f.orders.On("Update", ctx, o).Return(nil).Once()
		f.guard.On("Release", ctx, *o.CourierID(), o.ID()).Return(nil).Once()
		f.uow.On("Commit", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(errTxDone).Once()
		f.cache.On("MarkAvailable", ctx, mock.Anything).Return(errors.New("redis down")).Once()
		f.events.On("PublishOrderUpdated", ctx, mock.Anything).Return(errors.New("kafka down")).Once()
		f.realtime.On("SendToGroup", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("kafka down")).Once()

		_, err := f.handler.Handle(ctx, statusCommand(t, o.ID(), order.Delivered))
		require.NoError(t, err)
		f.events.AssertExpectations(t)
		f.realtime.AssertExpectations(t)
	})
}
