package ports

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
)

// Outbox event types. Each maps to one transport destination.
const (
	EventOrderDispatched = "OrderDispatched"
)

// OutboxMessage is an event stored in the same transaction as the state
// change it describes, published afterwards.
type OutboxMessage struct {
	ID        kernel.UUID
	EventType string
	Key       string
	Payload   []byte
	CreatedAt time.Time
	SentAt    *time.Time
	Attempts  int
}

// OutboxRepository stores and tracks outbox messages.
type OutboxRepository interface {
	Add(ctx context.Context, message OutboxMessage) error
	// ListUnsent returns up to limit unsent messages, oldest first.
	ListUnsent(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkSent(ctx context.Context, id kernel.UUID, sentAt time.Time) error
	// MarkFailed increments the attempt counter.
	MarkFailed(ctx context.Context, id kernel.UUID) error
}
