package http

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"

	"go.uber.org/zap"
)

// Use case contracts the server drives. The command and query handlers
// satisfy them.
type (
	PlaceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (commands.PlacementResult, error)
	}

	OrderActionHandler interface {
		Handle(ctx context.Context, cmd commands.OrderActionCommand) (commands.TransitionResult, error)
	}

	StartDutyHandler interface {
		Handle(ctx context.Context, cmd commands.StartDutyCommand) (commands.DutyResult, error)
	}

	EndDutyHandler interface {
		Handle(ctx context.Context, cmd commands.EndDutyCommand) (commands.DutyResult, error)
	}

	UpdateDutyAreaHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateDutyAreaCommand) (commands.DutyResult, error)
	}

	ChatConnectionHandler interface {
		Handle(ctx context.Context, cmd commands.ChatConnectionCommand) error
	}

	ChatMessageHandler interface {
		Handle(ctx context.Context, cmd commands.RouteChatMessageCommand) (commands.MessageDelivery, error)
	}

	OrderStatusHandler interface {
		Handle(ctx context.Context, query queries.GetOrderStatusQuery) (queries.GetOrderStatusQueryResponse, error)
	}

	DutyStatusHandler interface {
		Handle(ctx context.Context, query queries.GetDutyStatusQuery) (queries.GetDutyStatusQueryResponse, error)
	}

	PendingOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetPendingOrdersQuery) ([]queries.GetPendingOrdersQueryResponse, error)
	}
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	PlaceOrder     PlaceOrderHandler
	OrderActions   map[string]OrderActionHandler
	StartDuty      StartDutyHandler
	EndDuty        EndDutyHandler
	UpdateArea     UpdateDutyAreaHandler
	ConnectChat    ChatConnectionHandler
	DisconnectChat ChatConnectionHandler
	RouteMessage   ChatMessageHandler
	OrderStatus    OrderStatusHandler
	DutyStatus     DutyStatusHandler
	PendingOrders  PendingOrdersHandler
}

// OrderActionHandlers maps the action path segment to its handler.
func OrderActionHandlers(
	accept commands.AcceptOrderCommandHandler,
	pickup commands.MarkPickedUpCommandHandler,
	enRoute commands.MarkEnRouteCommandHandler,
	deliver commands.MarkDeliveredCommandHandler,
	save commands.SaveOrderForNextCommandHandler,
	decline commands.DeclineOrderCommandHandler,
) map[string]OrderActionHandler {
	return map[string]OrderActionHandler{
		"accept":   accept,
		"pickup":   pickup,
		"en-route": enRoute,
		"deliver":  deliver,
		"save":     save,
		"decline":  decline,
	}
}

// Server implements the dispatch HTTP API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers       Handlers
	chat           *ChatHub
	streamInterval time.Duration
	logger         *zap.Logger
}

// NewServer creates a server. streamInterval is the polling period of the
// order status event stream.
func NewServer(handlers Handlers, streamInterval time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "http"))

	return &Server{
		handlers:       handlers,
		chat:           NewChatHub(handlers.ConnectChat, handlers.DisconnectChat, handlers.RouteMessage, logger),
		streamInterval: streamInterval,
		logger:         logger,
	}
}
