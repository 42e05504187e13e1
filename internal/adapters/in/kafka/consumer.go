// Package kafka feeds assignment requests from a Kafka topic into the
// assignment engine through a sarama consumer group.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"

	"github.com/IBM/sarama"
)

// AssignmentHandler processes one assignment command.
type AssignmentHandler interface {
	Handle(ctx context.Context, cmd commands.AssignCourierCommand) error
}

var newConsumerGroup = sarama.NewConsumerGroup

// Consumer wraps a sarama consumer group. Every engine instance joins the
// same group, so each partition is processed by exactly one of them.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler AssignmentHandler
	logger  *slog.Logger
}

// NewConsumer joins groupID on brokers. Offsets start at the oldest message
// so nothing published before the first start is lost.
func NewConsumer(
	brokers []string,
	groupID, topic string,
	handler AssignmentHandler,
	logger *slog.Logger,
) (*Consumer, error) {
	if len(brokers) == 0 || strings.TrimSpace(groupID) == "" || strings.TrimSpace(topic) == "" {
		return nil, errs.NewValueIsRequiredError("kafka brokers, group and topic")
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, errs.NewTransportError(topic, err)
	}

	return &Consumer{
		group:   group,
		topic:   topic,
		handler: handler,
		logger:  logger.With("component", "assignment-consumer", "topic", topic),
	}, nil
}

// Run consumes until ctx is cancelled. A failed session is re-joined after a
// short pause; the unacknowledged message is then delivered again.
func (c *Consumer) Run(ctx context.Context) error {
	h := &groupHandler{handler: c.handler, logger: c.logger}

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.ErrorContext(ctx, "consume failed, rejoining", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	handler AssignmentHandler
	logger  *slog.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim acknowledges every message whose outcome is final and returns
// the first error a redelivery may fix, which ends the session without
// marking that message.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		ctx := sess.Context()

		var request ports.AssignmentRequest
		if err := json.Unmarshal(msg.Value, &request); err != nil {
			h.logger.WarnContext(ctx, "malformed assignment request, dropping",
				"offset", msg.Offset, "error", err)
			sess.MarkMessage(msg, "")
			continue
		}

		cmd, err := commands.NewAssignCourierCommandFromRequest(request)
		if err != nil {
			h.logger.WarnContext(ctx, "invalid assignment request, dropping",
				"offset", msg.Offset, "error", err)
			sess.MarkMessage(msg, "")
			continue
		}

		err = h.handler.Handle(ctx, cmd)
		if !isFinal(err) {
			h.logger.ErrorContext(ctx, "assignment failed, will be redelivered",
				"order_id", request.OrderID.String(), "error", err)
			return err
		}
		if err != nil {
			h.logger.InfoContext(ctx, "assignment request acknowledged without assignment",
				"order_id", request.OrderID.String(), "reason", err.Error())
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}

// isFinal reports whether err is an outcome that a redelivery cannot change.
func isFinal(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, commands.ErrNoCandidate),
		errors.Is(err, order.ErrOrderNotPending),
		errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return true
	default:
		return false
	}
}
