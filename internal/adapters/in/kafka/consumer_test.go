package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	ctx context.Context

	mu     sync.Mutex
	marked int
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(*sarama.ConsumerMessage, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked++
}

func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "" }
func (s *fakeSession) GenerationID() int32                      { return 0 }

func (s *fakeSession) MarkedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marked
}

type fakeClaim struct {
	ch chan *sarama.ConsumerMessage
}

func (c fakeClaim) Topic() string              { return "order-assignment" }
func (c fakeClaim) Partition() int32           { return 0 }
func (c fakeClaim) InitialOffset() int64       { return 0 }
func (c fakeClaim) HighWaterMarkOffset() int64 { return 0 }
func (c fakeClaim) Messages() <-chan *sarama.ConsumerMessage {
	return c.ch
}

type handlerFunc func(context.Context, commands.AssignCourierCommand) error

func (f handlerFunc) Handle(ctx context.Context, cmd commands.AssignCourierCommand) error {
	return f(ctx, cmd)
}

func claimOf(values ...[]byte) fakeClaim {
	ch := make(chan *sarama.ConsumerMessage, len(values))
	for i, v := range values {
		ch <- &sarama.ConsumerMessage{Value: v, Offset: int64(i)}
	}
	close(ch)
	return fakeClaim{ch: ch}
}

func validRequest(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(ports.AssignmentRequest{
		OrderID:           kernel.NewUUID(),
		VendorID:          kernel.NewUUID(),
		VendorLatitude:    40,
		VendorLongitude:   -73,
		DeliveryLatitude:  40.05,
		DeliveryLongitude: -73.02,
		Priority:          1,
	})
	require.NoError(t, err)
	return b
}

func newGroupHandler(h AssignmentHandler) *groupHandler {
	return &groupHandler{handler: h, logger: slog.New(slog.DiscardHandler)}
}

func TestConsumeClaim_MalformedMessages_AreAcknowledged(t *testing.T) {
	t.Parallel()

	h := newGroupHandler(handlerFunc(func(context.Context, commands.AssignCourierCommand) error {
		t.Error("handler must not be called")
		return nil
	}))
	outOfRange := []byte(fmt.Sprintf(`{"orderId":%q,"vendorId":%q,"vendorLatitude":123,"vendorLongitude":0}`,
		kernel.NewUUID(), kernel.NewUUID()))
	sess := &fakeSession{ctx: context.Background()}

	err := h.ConsumeClaim(sess, claimOf([]byte("not-json"), []byte(`{"orderId":""}`), outOfRange))

	require.NoError(t, err)
	assert.Equal(t, 3, sess.MarkedCount())
}

func TestConsumeClaim_Success_Marks(t *testing.T) {
	t.Parallel()

	var got commands.AssignCourierCommand
	h := newGroupHandler(handlerFunc(func(_ context.Context, cmd commands.AssignCourierCommand) error {
		got = cmd
		return nil
	}))
	sess := &fakeSession{ctx: context.Background()}

	err := h.ConsumeClaim(sess, claimOf(validRequest(t)))

	require.NoError(t, err)
	assert.Equal(t, 1, sess.MarkedCount())
	require.NoError(t, got.Validate())
	assert.InDelta(t, 40.0, got.Pickup().Latitude(), 1e-9)
}

func TestConsumeClaim_BusinessOutcomes_AreAcknowledged(t *testing.T) {
	t.Parallel()

	outcomes := []error{
		commands.ErrNoCandidate,
		fmt.Errorf("%w: confirmed elsewhere", order.ErrOrderNotPending),
		errs.NewObjectNotFoundError("orderId", "x"),
		errs.NewValueIsInvalidError("vendorId"),
	}
	for _, outcome := range outcomes {
		t.Run(outcome.Error(), func(t *testing.T) {
			t.Parallel()
			h := newGroupHandler(handlerFunc(func(context.Context, commands.AssignCourierCommand) error {
				return outcome
			}))
			sess := &fakeSession{ctx: context.Background()}

			err := h.ConsumeClaim(sess, claimOf(validRequest(t)))

			require.NoError(t, err)
			assert.Equal(t, 1, sess.MarkedCount())
		})
	}
}

func TestConsumeClaim_RetryableFailure_StopsWithoutMarking(t *testing.T) {
	t.Parallel()

	failures := []error{
		errs.NewPersistenceError("update order", errors.New("connection reset")),
		ports.ErrVersionConflict,
		errs.NewTransportError("order-dispatched", errors.New("broker down")),
	}
	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			t.Parallel()
			calls := 0
			h := newGroupHandler(handlerFunc(func(context.Context, commands.AssignCourierCommand) error {
				calls++
				return failure
			}))
			sess := &fakeSession{ctx: context.Background()}

			err := h.ConsumeClaim(sess, claimOf(validRequest(t), validRequest(t)))

			require.ErrorIs(t, err, failure)
			assert.Equal(t, 0, sess.MarkedCount())
			assert.Equal(t, 1, calls)
		})
	}
}

type fakeGroup struct {
	calls  int
	cancel context.CancelFunc
	err    error
}

func (g *fakeGroup) Consume(context.Context, []string, sarama.ConsumerGroupHandler) error {
	g.calls++
	g.cancel()
	return g.err
}

func (g *fakeGroup) Errors() <-chan error {
	ch := make(chan error)
	close(ch)
	return ch
}

func (g *fakeGroup) Close() error               { return nil }
func (g *fakeGroup) Pause(map[string][]int32)  {}
func (g *fakeGroup) Resume(map[string][]int32) {}
func (g *fakeGroup) PauseAll()                 {}
func (g *fakeGroup) ResumeAll()                {}

func TestConsumer_Run_StopsOnCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	group := &fakeGroup{cancel: cancel, err: errors.New("rebalance")}
	c := &Consumer{group: group, topic: "order-assignment", logger: slog.New(slog.DiscardHandler)}

	err := c.Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, group.calls)
}

func TestNewConsumer(t *testing.T) {
	t.Run("requires settings", func(t *testing.T) {
		_, err := NewConsumer(nil, "dispatch", "order-assignment", nil, slog.New(slog.DiscardHandler))
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = NewConsumer([]string{"b:9092"}, " ", "order-assignment", nil, slog.New(slog.DiscardHandler))
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("wraps sarama failure", func(t *testing.T) {
		orig := newConsumerGroup
		t.Cleanup(func() { newConsumerGroup = orig })
		sentinel := errors.New("boom")
		newConsumerGroup = func([]string, string, *sarama.Config) (sarama.ConsumerGroup, error) {
			return nil, sentinel
		}

		got, err := NewConsumer([]string{"b:9092"}, "dispatch", "order-assignment", nil, slog.New(slog.DiscardHandler))

		require.ErrorIs(t, err, sentinel)
		require.ErrorIs(t, err, errs.ErrTransport)
		assert.Nil(t, got)
	})
}
