package ports

import (
	"context"

	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/order"
)

type ChatRegistrationRepository interface {
	Upsert(ctx context.Context, reg *chat.Registration) error

	// Get returns errs.ObjectNotFoundError when the chat is not registered.
	Get(ctx context.Context, chatID order.ID) (*chat.Registration, error)

	Delete(ctx context.Context, chatID order.ID) error

	// ResetAll marks every side of every chat offline.
	ResetAll(ctx context.Context) (int64, error)
}

// OrderMapRepository maps an order to the customer who placed it.
type OrderMapRepository interface {
	Upsert(ctx context.Context, orderID order.ID, customerID string) error

	// GetCustomer returns errs.ObjectNotFoundError for unknown orders.
	GetCustomer(ctx context.Context, orderID order.ID) (string, error)

	Delete(ctx context.Context, orderID order.ID) error
}
