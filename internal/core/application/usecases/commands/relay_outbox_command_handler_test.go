package commands_test

import (
	"errors"
	"testing"
	"time"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/core/ports/mocks"
	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func outboxMessage() ports.OutboxMessage {
	return ports.OutboxMessage{
		ID:        kernel.NewUUID(),
		EventType: ports.EventOrderDispatched,
		Key:       kernel.NewUUID().String(),
		Payload:   []byte(`{}`),
		CreatedAt: now.Add(-5 * time.Minute),
	}
}

func TestNewRelayOutboxCommand(t *testing.T) {
	cmd, err := commands.NewRelayOutboxCommand(100)
	require.NoError(t, err)
	assert.Equal(t, 100, cmd.Limit())

	_, err = commands.NewRelayOutboxCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	require.ErrorIs(t, commands.RelayOutboxCommand{}.Validate(), commands.ErrRelayOutboxCommandIsNotConstructed)
}

func TestRelayOutboxCommandHandler_Handle(t *testing.T) {
	cmd, err := commands.NewRelayOutboxCommand(10)
	require.NoError(t, err)

	t.Run("sends and marks every message", func(t *testing.T) {
		ctx := t.Context()
		s := newMockSet()
		sender := new(mocks.OutboxSender)
		first, second := outboxMessage(), outboxMessage()

		s.outbox.On("ListUnsent", ctx, 10).Return([]ports.OutboxMessage{first, second}, nil).Once()
		mock.InOrder(
			sender.On("Send", ctx, first).Return(nil).Once(),
			s.outbox.On("MarkSent", ctx, first.ID, now).Return(nil).Once(),
			sender.On("Send", ctx, second).Return(nil).Once(),
			s.outbox.On("MarkSent", ctx, second.ID, now).Return(nil).Once(),
		)

		handler := commands.NewRelayOutboxCommandHandler(s.factory, sender, fixedLifecycle(), discardLogger())
		sent, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		s.assertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("failed send is counted and the batch continues", func(t *testing.T) {
		ctx := t.Context()
		s := newMockSet()
		sender := new(mocks.OutboxSender)
		failing, healthy := outboxMessage(), outboxMessage()
		brokerDown := errs.NewTransportError("order-dispatched", errors.New("broker down"))

		s.outbox.On("ListUnsent", ctx, 10).Return([]ports.OutboxMessage{failing, healthy}, nil).Once()
		sender.On("Send", ctx, failing).Return(brokerDown).Once()
		s.outbox.On("MarkFailed", ctx, failing.ID).Return(nil).Once()
		sender.On("Send", ctx, healthy).Return(nil).Once()
		s.outbox.On("MarkSent", ctx, healthy.ID, now).Return(nil).Once()

		handler := commands.NewRelayOutboxCommandHandler(s.factory, sender, fixedLifecycle(), discardLogger())
		sent, err := handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrTransport)
		assert.Equal(t, 1, sent)
		s.assertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("mark failure stops the batch", func(t *testing.T) {
		ctx := t.Context()
		s := newMockSet()
		sender := new(mocks.OutboxSender)
		first, second := outboxMessage(), outboxMessage()
		storeDown := errs.NewPersistenceError("mark outbox sent", errors.New("conn reset"))

		s.outbox.On("ListUnsent", ctx, 10).Return([]ports.OutboxMessage{first, second}, nil).Once()
		sender.On("Send", ctx, first).Return(nil).Once()
		s.outbox.On("MarkSent", ctx, first.ID, now).Return(storeDown).Once()

		handler := commands.NewRelayOutboxCommandHandler(s.factory, sender, fixedLifecycle(), discardLogger())
		sent, err := handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrPersistence)
		assert.Equal(t, 0, sent)
		sender.AssertNotCalled(t, "Send", ctx, second)
	})

	t.Run("list failure", func(t *testing.T) {
		ctx := t.Context()
		s := newMockSet()
		s.outbox.On("ListUnsent", ctx, 10).Return(nil, errs.NewPersistenceError("list outbox", errors.New("down"))).Once()

		handler := commands.NewRelayOutboxCommandHandler(s.factory, new(mocks.OutboxSender), fixedLifecycle(), discardLogger())
		_, err := handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrPersistence)
	})
}
