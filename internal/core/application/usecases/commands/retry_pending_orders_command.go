package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrRetryPendingOrdersCommandIsNotConstructed = errors.New(
	"retry pending orders command is not constructed, use NewRetryPendingOrdersCommand")

type RetryPendingOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewRetryPendingOrdersCommand() RetryPendingOrdersCommand {
	return RetryPendingOrdersCommand{guard: guard.NewConstructorGuard()}
}

func (c RetryPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRetryPendingOrdersCommandIsNotConstructed)
}
