package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/api"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/descipher"
	"dispatch/internal/adapters/out/docviews"
	"dispatch/internal/adapters/out/firebase"
	"dispatch/internal/adapters/out/googlemaps"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/metrics"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/redislock"
	"dispatch/internal/adapters/out/system"
	"dispatch/internal/core/application/orderrecord"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/logging"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const retryPassTimeout = 5 * time.Minute

// CompositionRoot owns every adapter of the process and builds the handlers
// on top of them.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *zap.Logger

	store     ports.DocumentStore
	directory ports.PartnerDirectory
	tokens    ports.TokenRegistry
	notifier  ports.Notifier
	locker    ports.Locker
	routes    ports.RouteDistance
	cipher    *descipher.Cipher
	metrics   *metrics.Prometheus
	clock     system.Clock
	ids       system.IDGenerator

	closers []func() error
}

func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		metrics:    metrics.NewPrometheus(),
	}

	if err := c.initStore(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if err := c.initLocker(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}

	if config.GoogleMapsAPIKey != "" {
		routes, err := googlemaps.NewRouteDistance(config.GoogleMapsAPIKey)
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		c.routes = routes
	} else {
		logger.Info("GOOGLE_MAPS_API_KEY not set, delivery distances use the haversine formula")
	}

	cipher, err := descipher.New(config.DESKey, config.DESIV)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("customer data cipher: %w", err), c.Close())
	}
	c.cipher = cipher

	return c, nil
}

func (c *CompositionRoot) initStore(ctx context.Context) error {
	switch c.config.StoreDriver {
	case StoreDriverMemory:
		c.logger.Warn("using the in-memory document store, state is lost on restart")
		c.store = memory.NewDocumentStore()
		c.directory = memory.NewPartnerDirectory()
		c.tokens = memory.NewTokenRegistry()
		c.notifier = memory.NewOutbox(logging.Component(c.logger, "outbox"))
		return nil

	case StoreDriverFirestore:
		clients, err := firebase.NewClients(ctx, c.config.FirebaseProjectID, c.config.FirebaseCredentialsFile)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, clients.Close)
		c.store = firebase.NewDocumentStore(clients.Firestore)
		c.directory = firebase.NewPartnerDirectory(clients.Firestore)
		tokens := firebase.NewTokenRegistry(clients.Firestore)
		c.tokens = tokens
		c.notifier = firebase.NewNotifier(clients.Messaging, tokens, logging.Component(c.logger, "fcm"))
		return nil

	default:
		return fmt.Errorf("unknown store driver %q", c.config.StoreDriver)
	}
}

func (c *CompositionRoot) initLocker(ctx context.Context) error {
	if c.config.RedisAddress == "" {
		c.logger.Info("REDIS_ADDRESS not set, order locks are in-process")
		c.locker = memory.NewLocker()
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.config.RedisAddress,
		Password: c.config.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping %s: %w", c.config.RedisAddress, err)
	}
	c.closers = append(c.closers, client.Close)
	c.locker = redislock.NewLocker(client, c.config.LockTTL, logging.Component(c.logger, "redislock"))
	return nil
}

// Close releases the external clients in reverse order of creation.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) pendingUoW() commands.PendingUoWFactory {
	return FuncPendingUoWFactory(func() commands.PendingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) chatUoW() commands.ChatUoWFactory {
	return FuncChatUoWFactory(func() commands.ChatUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) writer() *orderrecord.Writer {
	return orderrecord.NewWriter(c.store, logging.Component(c.logger, "orderrecord"))
}

func (c *CompositionRoot) pusher() *commands.Pusher {
	return commands.NewPusher(c.notifier, c.tokens, c.metrics, logging.Component(c.logger, "push"))
}

func (c *CompositionRoot) lifecycleDeps() commands.LifecycleDeps {
	return commands.LifecycleDeps{
		UoWFactory: c.uow(),
		Writer:     c.writer(),
		Locker:     c.locker,
		Pusher:     c.pusher(),
		Clock:      c.clock,
		Metrics:    c.metrics,
		Logger:     logging.Component(c.logger, "lifecycle"),
		Timeout:    c.config.AssignmentTimeout,
	}
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(commands.PlacementDeps{
		UoWFactory: c.uow(),
		Writer:     c.writer(),
		Directory:  c.directory,
		Addresses:  docviews.NewAddressBook(c.store),
		Shops:      docviews.NewShopDirectory(c.store, logging.Component(c.logger, "shops")),
		Routes:     c.routes,
		Cipher:     c.cipher,
		Clock:      c.clock,
		IDs:        c.ids,
		Locker:     c.locker,
		Pusher:     c.pusher(),
		Metrics:    c.metrics,
		Logger:     logging.Component(c.logger, "placement"),
		Timeout:    c.config.AssignmentTimeout,
	})
}

func (c *CompositionRoot) CreateRetryPendingOrdersCommandHandler() commands.RetryPendingOrdersCommandHandler {
	return commands.NewRetryPendingOrdersCommandHandler(commands.RetryDeps{
		UoWFactory:  c.pendingUoW(),
		Placer:      c.CreatePlaceOrderCommandHandler(),
		Pusher:      c.pusher(),
		Clock:       c.clock,
		MaxAttempts: c.config.MaxPendingAttempts,
		Metrics:     c.metrics,
		Logger:      logging.Component(c.logger, "retry"),
	})
}

func (c *CompositionRoot) CreateOrderActionHandlers() map[string]httpin.OrderActionHandler {
	deps := c.lifecycleDeps()
	return httpin.OrderActionHandlers(
		commands.NewAcceptOrderCommandHandler(deps),
		commands.NewMarkPickedUpCommandHandler(deps),
		commands.NewMarkEnRouteCommandHandler(deps),
		commands.NewMarkDeliveredCommandHandler(deps),
		commands.NewSaveOrderForNextCommandHandler(deps),
		commands.NewDeclineOrderCommandHandler(deps),
	)
}

func (c *CompositionRoot) CreateResetChatConnectionsCommandHandler() commands.ResetChatConnectionsCommandHandler {
	return commands.NewResetChatConnectionsCommandHandler(c.chatUoW())
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) handlers() httpin.Handlers {
	profiles := docviews.NewPartnerProfiles(c.store)
	dutyLogger := logging.Component(c.logger, "duty")

	return httpin.Handlers{
		PlaceOrder:     c.CreatePlaceOrderCommandHandler(),
		OrderActions:   c.CreateOrderActionHandlers(),
		StartDuty:      commands.NewStartDutyCommandHandler(profiles, c.directory, c.clock, dutyLogger),
		EndDuty:        commands.NewEndDutyCommandHandler(profiles, c.directory, c.clock, dutyLogger),
		UpdateArea:     commands.NewUpdateDutyAreaCommandHandler(profiles, c.directory, c.clock, dutyLogger),
		ConnectChat:    commands.NewConnectChatCommandHandler(c.chatUoW()),
		DisconnectChat: commands.NewDisconnectChatCommandHandler(c.chatUoW()),
		RouteMessage: commands.NewRouteChatMessageCommandHandler(
			c.chatUoW(), c.pusher(), logging.Component(c.logger, "chat")),
		OrderStatus:   queries.NewGetOrderStatusQueryHandler(c.store),
		DutyStatus:    queries.NewGetDutyStatusQueryHandler(profiles, c.directory, c.clock),
		PendingOrders: c.CreateGetPendingOrdersQueryHandler(),
	}
}

// CreateRouter builds the echo instance serving the HTTP and chat API.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpin.NewServer(c.handlers(), c.config.OrderStreamInterval, logging.Component(c.logger, "http"))
	return httpin.NewRouter(server, httpin.RouterConfig{
		OpenAPI: api.OpenAPI,
		Metrics: c.metrics.Handler(),
		Logger:  c.logger,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	retryJob := jobs.NewPendingOrderRetryJob(
		c.CreateRetryPendingOrdersCommandHandler(),
		c.config.RetrySchedule,
		retryPassTimeout,
		logging.Component(c.logger, "jobs"),
	)
	return jobs.NewJobManager(retryJob)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncPendingUoWFactory func() commands.PendingUoW

func (f FuncPendingUoWFactory) Create() commands.PendingUoW {
	return f()
}

type FuncChatUoWFactory func() commands.ChatUoW

func (f FuncChatUoWFactory) Create() commands.ChatUoW {
	return f()
}
