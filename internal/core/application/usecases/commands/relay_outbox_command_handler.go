package commands

import (
	"context"
	"errors"
	"log/slog"

	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports"
)

// RelayOutboxCommandHandler delivers outbox messages the assignment engine
// could not publish right after commit. Delivery is at least once: a message
// sent but not marked is sent again on the next run.
type RelayOutboxCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	sender     ports.OutboxSender
	lifecycle  services.OrderLifecycle
	logger     *slog.Logger
}

func NewRelayOutboxCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	sender ports.OutboxSender,
	lifecycle services.OrderLifecycle,
	logger *slog.Logger,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
		lifecycle:  lifecycle,
		logger:     logger.With("component", "outbox-relay"),
	}
}

// Handle returns how many messages were delivered. A failed send is counted
// on the message and the batch goes on; a failure to read or mark the outbox
// stops it.
func (h *RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	outbox := h.uowFactory.Create().OutboxRepository()
	pending, err := outbox.ListUnsent(ctx, cmd.Limit())
	if err != nil {
		return 0, err
	}

	var (
		sent     int
		failures []error
	)
	for _, message := range pending {
		if sendErr := h.sender.Send(ctx, message); sendErr != nil {
			h.logger.WarnContext(ctx, "outbox message not delivered",
				"message_id", message.ID.String(), "event_type", message.EventType,
				"attempts", message.Attempts+1, "error", sendErr)
			failures = append(failures, sendErr)
			if err = outbox.MarkFailed(ctx, message.ID); err != nil {
				return sent, errors.Join(append(failures, err)...)
			}
			continue
		}
		if err = outbox.MarkSent(ctx, message.ID, h.lifecycle.Now()); err != nil {
			return sent, errors.Join(append(failures, err)...)
		}
		sent++
	}

	if len(pending) > 0 {
		h.logger.InfoContext(ctx, "outbox relayed", "found", len(pending), "sent", sent, "failed", len(failures))
	}
	return sent, errors.Join(failures...)
}
