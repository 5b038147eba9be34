package queries

import (
	"context"

	"dispatch/internal/core/application/orderrecord"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// GetOrderStatusQueryHandler reads the realtime status document of an order
// from the document store.
//
// Example:
//
//	handler := NewGetOrderStatusQueryHandler(store)
//	query, _ := NewGetOrderStatusQuery(userID, orderID)
//
//	status, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("order %s is at step %d\n", status.OrderID, status.Status.Int())
type GetOrderStatusQueryHandler struct {
	store ports.DocumentStore
}

// NewGetOrderStatusQueryHandler creates a handler over the document store
// holding the order views.
func NewGetOrderStatusQueryHandler(store ports.DocumentStore) GetOrderStatusQueryHandler {
	return GetOrderStatusQueryHandler{store: store}
}

// Handle returns ObjectNotFoundError when the status view does not exist,
// which is also the case once a delivered order has been cleaned up.
func (h GetOrderStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatusQuery,
) (GetOrderStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	ref := view.RealtimeStatus(query.UserID(), query.OrderID().String())
	doc, ok, err := h.store.Get(ctx, ref)
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}
	if !ok {
		return GetOrderStatusQueryResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID().String())
	}

	return GetOrderStatusQueryResponse{
		OrderID:         query.OrderID(),
		Status:          order.Status(doc.Int64(orderrecord.FieldStatusNo)),
		PartnerAssigned: doc.Bool(orderrecord.FieldPartnerAssigned),
		Label:           doc.String(orderrecord.FieldStatusLabel),
		Payload:         doc,
	}, nil
}
