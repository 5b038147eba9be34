package http

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// RouterConfig carries what NewRouter mounts next to the API.
type RouterConfig struct {
	// OpenAPI is the raw document served at /openapi.yaml and used for
	// request validation.
	OpenAPI []byte

	// Metrics serves /metrics when set.
	Metrics http.Handler

	Logger *zap.Logger
}

// NewRouter builds the echo instance with every route of the service.
func NewRouter(s *Server, cfg RouterConfig) (*echo.Echo, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger.With(zap.String("component", "http"))))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic in handler",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.ByteString("stack", stack))
			return err
		},
	}))

	var doc *openapi3.T
	if len(cfg.OpenAPI) > 0 {
		var err error
		if doc, err = LoadOpenAPI(cfg.OpenAPI); err != nil {
			return nil, err
		}
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics))
	}
	if doc != nil {
		e.GET("/openapi.yaml", func(c echo.Context) error {
			return c.Blob(http.StatusOK, "application/yaml", cfg.OpenAPI)
		})
		e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.yaml")))
	}

	e.GET("/ws/chat/:chatId/:clientId/:clientType", s.chat.ServeChat)

	api := e.Group("/api/v1")
	if doc != nil {
		validate, err := OpenAPIValidator(doc)
		if err != nil {
			return nil, err
		}
		api.Use(validate)
	}

	api.POST("/orders/obs", s.PlaceShopOrder)
	api.POST("/orders/obv", s.PlaceVoiceOrder)
	api.GET("/orders/:userId/:orderId/status", s.GetOrderStatus)
	api.GET("/orders/:userId/:orderId/stream", s.StreamOrderStatus)

	api.POST("/partners/:dpId/orders/:userId/:orderId/:action", s.ActOnOrder)
	api.GET("/partners/:dpId/duty", s.GetDutyStatus)
	api.POST("/partners/:dpId/duty/start", s.StartDuty)
	api.POST("/partners/:dpId/duty/end", s.EndDuty)
	api.PUT("/partners/:dpId/duty/area", s.UpdateDutyArea)

	api.GET("/pending-orders", s.GetPendingOrders)

	return e, nil
}
