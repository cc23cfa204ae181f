package cmd

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/adapters/out/blobstore"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/pawapay"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/redisgeo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/jobs"
	"fulfillment/internal/lifecycle"
	"fulfillment/internal/reconciler"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters, handlers and the lifecycle controller.
// The reconciler and the controller are singletons: they hold the registry of
// running reconciliations.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	publisher *kafka.Producer
	locations *redisgeo.DriverLocations
	gateway   *pawapay.Client
	storage   *blobstore.LocalStore

	engine     *reconciler.Reconciler
	controller *lifecycle.Controller
	jobManager *jobs.JobManager
}

// NewCompositionRoot builds the object graph from configuration.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	publisher, err := kafka.NewProducer(config.KafkaBrokers, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	storage, err := blobstore.NewLocalStore(config.ProofStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create proof store: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})

	c := &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		publisher:  publisher,
		locations:  redisgeo.NewDriverLocations(rdb),
		gateway:    pawapay.NewClient(config.PawapayBaseURL, config.PawapayAPIToken),
		storage:    storage,
	}

	c.engine = reconciler.NewReconciler(
		c.gateway,
		&c.uowFactory,
		c.CreateConfirmPaymentCommandHandler(),
		c.CreateMarkSellerVerifiedCommandHandler(),
		c.publisher,
		reconciler.DefaultPollSchedule(),
		logger,
	)

	c.controller = lifecycle.NewController(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChooseSellerDeliveryCommandHandler(),
		c.CreateAssignDriverCommandHandler(),
		c.CreateCaptureProofCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateGetCandidateDriversQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetSellerOrdersQueryHandler(),
		c.engine,
		logger,
	)

	c.jobManager = jobs.NewJobManager(&c.uowFactory, logger)

	return c, nil
}

// Controller returns the lifecycle controller the transport layer talks to.
func (c *CompositionRoot) Controller() *lifecycle.Controller {
	return c.controller
}

// JobManager returns the scheduled-jobs manager.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

// Shutdown stops background work and releases broker connections.
func (c *CompositionRoot) Shutdown() {
	c.controller.Shutdown()
	c.jobManager.StopAll()

	if err := c.publisher.Close(); err != nil {
		c.logger.Error("Failed to close kafka producer", "error", err)
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateChooseSellerDeliveryCommandHandler() commands.ChooseSellerDeliveryCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChooseSellerDeliveryCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmPaymentCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriverCommandHandler(f, c.locations, c.publisher)
}

func (c *CompositionRoot) CreateCaptureProofCommandHandler() commands.CaptureProofCommandHandler {
	var f commands.FulfillmentUoWFactory = FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCaptureProofCommandHandler(f, c.storage, c.publisher)
}

func (c *CompositionRoot) CreateMarkSellerVerifiedCommandHandler() commands.MarkSellerVerifiedCommandHandler {
	var f commands.SellerUoWFactory = FuncSellerUoWFactory(func() commands.SellerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkSellerVerifiedCommandHandler(f)
}

func (c *CompositionRoot) CreateGetCandidateDriversQueryHandler() queries.GetCandidateDriversQueryHandler {
	return queries.NewGetCandidateDriversQueryHandler(c.gormDB, c.locations)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetSellerOrdersQueryHandler() queries.GetSellerOrdersQueryHandler {
	return queries.NewGetSellerOrdersQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncSellerUoWFactory func() commands.SellerUoW

func (f FuncSellerUoWFactory) Create() commands.SellerUoW {
	return f()
}
