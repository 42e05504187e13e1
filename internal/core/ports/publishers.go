package ports

import "context"

// AssignmentRequestPublisher enqueues orders for the assignment engine.
type AssignmentRequestPublisher interface {
	PublishAssignmentRequest(ctx context.Context, request AssignmentRequest) error
}

// EventPublisher emits domain events that are not routed through the outbox.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreated) error
	PublishOrderUpdated(ctx context.Context, event OrderUpdated) error
	PublishVendorStatusChanged(ctx context.Context, event VendorStatusChanged) error
}

// RealtimeNotifier fans a message out to every client subscribed to group.
type RealtimeNotifier interface {
	SendToGroup(ctx context.Context, group, method string, payload any) error
}

// OutboxSender delivers a stored outbox message to its destination.
type OutboxSender interface {
	Send(ctx context.Context, message OutboxMessage) error
}
