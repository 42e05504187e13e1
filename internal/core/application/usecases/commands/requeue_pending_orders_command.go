package commands

import (
	"errors"
	"time"

	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

var ErrRequeuePendingOrdersCommandIsNotConstructed = errors.New(
	"RequeuePendingOrdersCommand must be created via NewRequeuePendingOrdersCommand constructor",
)

// RequeuePendingOrdersCommand selects Pending orders placed more than olderThan
// ago, at most limit of them, for another assignment attempt.
type RequeuePendingOrdersCommand struct { //nolint:recvcheck //using for validation
	olderThan time.Duration
	limit     int

	guard guard.ConstructorGuard
}

func NewRequeuePendingOrdersCommand(olderThan time.Duration, limit int) (RequeuePendingOrdersCommand, error) {
	var ageErr, limitErr error
	if olderThan <= 0 {
		ageErr = errs.NewValueIsInvalidError("olderThan")
	}
	if limit <= 0 {
		limitErr = errs.NewValueIsInvalidError("limit")
	}
	if err := errors.Join(ageErr, limitErr); err != nil {
		return RequeuePendingOrdersCommand{}, err
	}

	return RequeuePendingOrdersCommand{
		olderThan: olderThan,
		limit:     limit,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RequeuePendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRequeuePendingOrdersCommandIsNotConstructed)
}

func (c RequeuePendingOrdersCommand) OlderThan() time.Duration { return c.olderThan }
func (c RequeuePendingOrdersCommand) Limit() int               { return c.limit }

// Cutoff is the creation time before which a Pending order counts as stale.
func (c RequeuePendingOrdersCommand) Cutoff(now time.Time) time.Time {
	return now.Add(-c.olderThan)
}
