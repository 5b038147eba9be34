package http

import (
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

type PendingOrderResponse struct {
	OrderID    string    `json:"order_id"`
	OrderType  string    `json:"order_type"`
	CustomerID string    `json:"customer_id"`
	Attempts   int       `json:"attempts"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetPendingOrders handles GET /api/v1/pending-orders?type=obs|obv.
func (s *Server) GetPendingOrders(c echo.Context) error {
	query, err := queries.NewGetPendingOrdersQuery(c.QueryParam("type"))
	if err != nil {
		return s.badRequest(c, err)
	}

	orders, err := s.handlers.PendingOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err, "Failed to retrieve pending orders")
	}

	response := make([]PendingOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = PendingOrderResponse{
			OrderID:    o.OrderID.String(),
			OrderType:  o.OrderType.String(),
			CustomerID: o.CustomerID,
			Attempts:   o.Attempts,
			CreatedAt:  o.CreatedAt,
			UpdatedAt:  o.UpdatedAt,
		}
	}
	return c.JSON(http.StatusOK, response)
}
