package ports

import (
	"context"
)

// UnitOfWorkFactory creates a new UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary over the relational repositories.
// Repositories returned by it use the transaction opened by Begin.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error when no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error when no transaction is active, as after
	// Commit. Deferred callers ignore it.
	Rollback(ctx context.Context) error

	PendingOrderRepository() PendingOrderRepository
	ChatRegistrationRepository() ChatRegistrationRepository
	OrderMapRepository() OrderMapRepository
}
