package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetPendingOrdersQueryIsNotConstructed = errors.New(
		"GetPendingOrdersQuery must be created via NewGetPendingOrdersQuery constructor",
	)
)

// GetPendingOrdersQuery lists the orders still waiting for a partner, for
// operators watching the retry queue.
//
// Example:
//
//	query, err := NewGetPendingOrdersQuery("obv")
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
//	fmt.Printf("%d voice orders waiting\n", len(orders))
type GetPendingOrdersQuery struct {
	orderType order.Type

	guard guard.ConstructorGuard
}

// NewGetPendingOrdersQuery accepts an order type to filter by. An empty type
// lists both.
func NewGetPendingOrdersQuery(orderType string) (GetPendingOrdersQuery, error) {
	q := GetPendingOrdersQuery{guard: guard.NewConstructorGuard()}
	if orderType == "" {
		return q, nil
	}
	t, err := order.ParseType(orderType)
	if err != nil {
		return GetPendingOrdersQuery{}, err
	}
	q.orderType = t
	return q, nil
}

// OrderType is empty when the query covers every type.
func (q GetPendingOrdersQuery) OrderType() order.Type {
	return q.orderType
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPendingOrdersQueryIsNotConstructed if validation fails.
func (q GetPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOrdersQueryIsNotConstructed)
}

// GetPendingOrdersQueryResponse is one queued order.
//
// Example:
//
//	response := GetPendingOrdersQueryResponse{
//	    OrderID:    "ORDOBV20261014093000ABCDEF12",
//	    OrderType:  order.TypeStorePreference,
//	    CustomerID: "user-1",
//	    Attempts:   2,
//	    CreatedAt:  time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
//	}
type GetPendingOrdersQueryResponse struct {
	OrderID    order.ID
	OrderType  order.Type
	CustomerID string
	Attempts   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
