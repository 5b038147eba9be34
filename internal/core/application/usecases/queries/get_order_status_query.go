package queries

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetOrderStatusQueryIsNotConstructed = errors.New(
		"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
	)
)

// GetOrderStatusQuery reads the realtime status view a customer's app follows
// while an order is on its way.
//
// Example:
//
//	query, err := NewGetOrderStatusQuery("user-1", "ORDOBS20261014093000ABCDEF12")
//	if err != nil {
//	    return err
//	}
//	status, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // the order finished or never existed
//	}
type GetOrderStatusQuery struct {
	userID  string
	orderID order.ID

	guard guard.ConstructorGuard
}

// NewGetOrderStatusQuery validates the customer and order identifiers.
// Returns ValueIsRequiredError for an empty user id and the order id parse
// error for malformed order ids.
func NewGetOrderStatusQuery(userID string, orderID string) (GetOrderStatusQuery, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return GetOrderStatusQuery{}, errs.NewValueIsRequiredError("userId")
	}
	id, err := order.ParseID(orderID)
	if err != nil {
		return GetOrderStatusQuery{}, err
	}
	return GetOrderStatusQuery{userID: userID, orderID: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderStatusQuery) UserID() string {
	return q.userID
}

func (q GetOrderStatusQuery) OrderID() order.ID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderStatusQueryIsNotConstructed if validation fails.
func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

// GetOrderStatusQueryResponse carries the status view as stored together with
// the fields callers branch on.
//
// Example:
//
//	response := GetOrderStatusQueryResponse{
//	    OrderID:         "ORDOBS20261014093000ABCDEF12",
//	    Status:          order.Accepted,
//	    PartnerAssigned: true,
//	    Payload:         view.Document{"order_status_no": 3},
//	}
type GetOrderStatusQueryResponse struct {
	OrderID         order.ID
	Status          order.Status
	PartnerAssigned bool
	Label           string
	Payload         view.Document
}

// IsFinal reports whether no further status change will follow.
func (r GetOrderStatusQueryResponse) IsFinal() bool {
	return r.Status.IsTerminal()
}
