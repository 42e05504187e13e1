package commands

import (
	"errors"

	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

var ErrRelayOutboxCommandIsNotConstructed = errors.New(
	"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
)

// RelayOutboxCommand publishes up to limit outbox messages that are still unsent.
type RelayOutboxCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

func NewRelayOutboxCommand(limit int) (RelayOutboxCommand, error) {
	if limit <= 0 {
		return RelayOutboxCommand{}, errs.NewValueIsInvalidError("limit")
	}
	return RelayOutboxCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

func (c RelayOutboxCommand) Limit() int { return c.limit }
