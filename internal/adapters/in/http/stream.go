package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const defaultStreamInterval = 6 * time.Second

// StreamOrderStatus handles GET /api/v1/orders/:userId/:orderId/stream. It
// polls the realtime status and sends an event whenever it changes. The
// stream ends after the delivered status, when the status view disappears or
// when the client goes away.
func (s *Server) StreamOrderStatus(c echo.Context) error {
	params, err := pathParams(c, "userId", "orderId")
	if err != nil {
		return s.badRequest(c, err)
	}
	query, err := queries.NewGetOrderStatusQuery(params[0], params[1])
	if err != nil {
		return s.badRequest(c, err)
	}

	ctx := c.Request().Context()
	status, err := s.handlers.OrderStatus.Handle(ctx, query)
	if err != nil {
		return s.fail(c, err, "Failed to retrieve the order status")
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	interval := s.streamInterval
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last []byte
	for {
		payload, err := json.Marshal(orderStatusResponse(status))
		if err != nil {
			return err
		}
		if !bytes.Equal(payload, last) {
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
			last = payload
		}
		if status.IsFinal() {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		status, err = s.handlers.OrderStatus.Handle(ctx, query)
		switch {
		case err == nil:
		case errors.Is(err, errs.ErrObjectNotFound):
			return nil
		default:
			s.logger.Warn("order status stream ended", zap.String("order_id", params[1]), zap.Error(err))
			return nil
		}
	}
}
