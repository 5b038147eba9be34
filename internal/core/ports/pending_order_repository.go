package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pending"
)

// PendingOrderRepository stores orders that are waiting for a partner.
type PendingOrderRepository interface {
	// Upsert inserts the pending order or replaces the stored one.
	Upsert(ctx context.Context, p *pending.PendingOrder) error

	// Update persists attempt and status changes of a stored pending order.
	Update(ctx context.Context, p *pending.PendingOrder) error

	// Get returns errs.ObjectNotFoundError when the order is not pending.
	Get(ctx context.Context, orderID order.ID) (*pending.PendingOrder, error)

	// ListPending returns the orders of orderType still in status pending,
	// oldest first.
	ListPending(ctx context.Context, orderType order.Type) ([]*pending.PendingOrder, error)

	MarkAssigned(ctx context.Context, orderIDs []order.ID) error
	DeleteMany(ctx context.Context, orderIDs []order.ID) error
}
