package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pending"

	"gorm.io/gorm"
)

// GetPendingOrdersQueryHandler reads the pending order queue straight from the
// database, bypassing the repository and its domain mapping.
//
// Example:
//
//	handler := NewGetPendingOrdersQueryHandler(db)
//	query, _ := NewGetPendingOrdersQuery("")
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	for _, o := range orders {
//	    fmt.Printf("%s waited %d rounds\n", o.OrderID, o.Attempts)
//	}
type GetPendingOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingOrdersQueryHandler creates a handler for queue queries.
// Requires a GORM database connection for query execution.
func NewGetPendingOrdersQueryHandler(db *gorm.DB) GetPendingOrdersQueryHandler {
	return GetPendingOrdersQueryHandler{db: db}
}

// Handle returns the orders in status pending, oldest first, in the order the
// retry loop visits them.
func (h GetPendingOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingOrdersQuery,
) ([]GetPendingOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			order_id,
			order_type,
			customer_id,
			attempts,
			created_at,
			updated_at
		FROM pending_orders
		WHERE status = ?`
	args := []any{string(pending.StatusPending)}
	if query.OrderType() != "" {
		sql += " AND order_type = ?"
		args = append(args, query.OrderType().String())
	}
	sql += " ORDER BY created_at, order_id"

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetPendingOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp      GetPendingOrdersQueryResponse
			id, kind  string
			createdAt time.Time
			updatedAt time.Time
		)
		if err = rows.Scan(&id, &kind, &resp.CustomerID, &resp.Attempts, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		orderType, typeErr := order.ParseType(kind)
		if typeErr != nil {
			return nil, typeErr
		}
		resp.OrderID = order.ID(id)
		resp.OrderType = orderType
		resp.CreatedAt = createdAt.UTC()
		resp.UpdatedAt = updatedAt.UTC()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
