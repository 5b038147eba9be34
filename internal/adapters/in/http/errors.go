package http

import (
	"context"
	"errors"
	"net/http"

	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusOf maps a use case error onto an HTTP status. Invalid values that
// reach a handler come from state transitions and are conflicts.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrValueIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrExternalService):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()})
}

// fail answers with the status of err. Server errors are logged and their
// details withheld.
func (s *Server) fail(c echo.Context, err error, message string) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(message,
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.JSON(code, Error{Code: code, Message: message})
	}
	return c.JSON(code, Error{Code: code, Message: err.Error()})
}
