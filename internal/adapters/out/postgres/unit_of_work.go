// Package postgres provides the GORM-based Unit of Work over the relational
// part of the dispatch state: the pending order queue, chat registrations and
// the order to customer map. Document views live in the document store and are
// not covered by these transactions.
//
// Usage Patterns:
//
// Basic Transaction Management:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.PendingOrderRepository().Upsert(ctx, p); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Multi-Repository Transactions:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	// The pending entry and the chat registration commit together
//	if err := uow.PendingOrderRepository().Upsert(ctx, p); err != nil {
//	    return err
//	}
//	if err := uow.ChatRegistrationRepository().Upsert(ctx, reg); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance owns at most one transaction
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Concurrent placement of one order is serialised by the order lock, not here
package postgres

import (
	"context"

	"dispatch/internal/adapters/out/postgres/chatrepo"
	"dispatch/internal/adapters/out/postgres/pendingrepo"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        order.ID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM connection pool.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    return err
//	}
//	factory := NewGormUnitOfWorkFactory(db)
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with its own transaction state and
// aggregate list.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the pending,
// chat and order map repositories.
//
// Example usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return fmt.Errorf("begin: %w", err)
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.ChatRegistrationRepository().Delete(ctx, orderID); err != nil {
//	    return err
//	}
//	if err := uow.OrderMapRepository().Delete(ctx, orderID); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

var _ ports.UnitOfWork = (*GormUnitOfWork)(nil)

// Begin opens the transaction. Calling it again while a transaction is open
// does nothing.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. It returns gorm.ErrInvalidTransaction when
// no transaction is open.
//
// Example:
//
//	if err := uow.Commit(ctx); err != nil {
//	    return fmt.Errorf("commit: %w", err)
//	}
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction
// when no transaction is open, which is the case after Commit, so deferred
// callers ignore its result.
//
// Example:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// PendingOrderRepository gives access to the pending order queue. Operations
// run inside the open transaction, or directly on the pool when there is none.
func (uow *GormUnitOfWork) PendingOrderRepository() ports.PendingOrderRepository {
	return pendingrepo.NewGormPendingOrderRepository(uow.conn(), uow)
}

// ChatRegistrationRepository gives access to chat registrations.
func (uow *GormUnitOfWork) ChatRegistrationRepository() ports.ChatRegistrationRepository {
	return chatrepo.NewGormChatRegistrationRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OrderMapRepository() ports.OrderMapRepository {
	return chatrepo.NewGormOrderMapRepository(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after a successful write.
//
// Example (used by repository implementations):
//
//	func (r *GormPendingOrderRepository) Upsert(ctx context.Context, p *pending.PendingOrder) error {
//	    if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
//	        return err
//	    }
//	    r.tracker.TrackAggregate(p.OrderID(), p)
//	    return nil
//	}
func (uow *GormUnitOfWork) TrackAggregate(id order.ID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedCount reports how many aggregates were written so far.
func (uow *GormUnitOfWork) TrackedCount() int {
	return len(uow.trackedAggregates)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
