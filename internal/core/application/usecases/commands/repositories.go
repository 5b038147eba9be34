// Package commands contains the operations that change dispatch state:
// placing orders, moving them through their milestones, retrying pending
// orders, duty changes and chat connection bookkeeping. Every handler
// validates its command, runs relational writes inside a unit of work and
// returns a structured result.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces give handlers transactional access to the
// relational repositories they need.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	PendingOrderRepoFactory interface {
		PendingOrderRepository() ports.PendingOrderRepository
	}

	ChatRegistrationRepoFactory interface {
		ChatRegistrationRepository() ports.ChatRegistrationRepository
	}

	OrderMapRepoFactory interface {
		OrderMapRepository() ports.OrderMapRepository
	}

	// PendingUoW is used by the retry loop, which only touches pending orders.
	PendingUoW interface {
		TxManager
		PendingOrderRepoFactory
	}

	PendingUoWFactory interface {
		Create() PendingUoW
	}

	// ChatUoW is used by the chat connection commands.
	ChatUoW interface {
		TxManager
		ChatRegistrationRepoFactory
	}

	ChatUoWFactory interface {
		Create() ChatUoW
	}

	// UoW spans every relational repository. Placement and delivery use it
	// so that the chat registration, the order map and the pending order
	// change together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   _ = uow.ChatRegistrationRepository().Upsert(ctx, reg)
	//   _ = uow.OrderMapRepository().Upsert(ctx, orderID, userID)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		PendingOrderRepoFactory
		ChatRegistrationRepoFactory
		OrderMapRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
