package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fooddispatch/internal/adapters/in/http"
	kafkain "fooddispatch/internal/adapters/in/kafka"
	"fooddispatch/internal/adapters/out/kafka"
	"fooddispatch/internal/adapters/out/postgres"
	"fooddispatch/internal/adapters/out/rediscache"
	"fooddispatch/internal/core/application/directory"
	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/application/usecases/queries"
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/jobs"
	"fooddispatch/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived dependency of the service.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB     *gorm.DB
	redis      *redis.Client
	producer   *kafka.Producer
	registry   *prometheus.Registry
	uowFactory *postgres.GormUnitOfWorkFactory
	directory  *directory.CourierDirectory
	lifecycle  services.OrderLifecycle
	dispatch   *metrics.Dispatch
}

// NewCompositionRoot opens the database, the cache and the producer and
// migrates the schema. Call Close to release them.
func NewCompositionRoot(cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	gormDB, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	syncProducer, err := kafka.NewSyncProducer(cfg.KafkaBrokers)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	dispatch, err := metrics.NewDispatch(registry)
	if err != nil {
		_ = syncProducer.Close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	return &CompositionRoot{
		cfg:    cfg,
		logger: logger,
		gormDB: gormDB,
		redis:  redisClient,
		producer: kafka.NewProducer(syncProducer, kafka.Topics{
			Assignment:   cfg.KafkaAssignmentTopic,
			Dispatched:   cfg.KafkaDispatchedTopic,
			OrderUpdated: cfg.KafkaOrderUpdatedTopic,
			Realtime:     cfg.KafkaRealtimeTopic,
			OrderCreated: cfg.KafkaOrderCreatedTopic,
			VendorStatus: cfg.KafkaVendorStatusTopic,
		}),
		registry:   registry,
		uowFactory: uowFactory,
		directory:  directory.NewCourierDirectory(uowFactory, rediscache.NewLocationCache(redisClient), logger),
		lifecycle:  services.NewOrderLifecycle(func() time.Time { return time.Now().UTC() }),
		dispatch:   dispatch,
	}, nil
}

func (c *CompositionRoot) locationCache() *rediscache.LocationCache {
	return rediscache.NewLocationCache(c.redis)
}

func (c *CompositionRoot) NewCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(
		c.uowFactory, c.producer, c.producer, c.producer, c.lifecycle, c.logger)
	return &h
}

func (c *CompositionRoot) NewUpdateOrderStatusCommandHandler() *commands.UpdateOrderStatusCommandHandler {
	h := commands.NewUpdateOrderStatusCommandHandler(
		c.uowFactory, c.locationCache(), c.producer, c.producer, c.lifecycle, c.logger)
	return &h
}

func (c *CompositionRoot) NewCreateCourierCommandHandler() *commands.CreateCourierCommandHandler {
	h := commands.NewCreateCourierCommandHandler(c.uowFactory)
	return &h
}

func (c *CompositionRoot) NewChangeCourierStatusCommandHandler() *commands.ChangeCourierStatusCommandHandler {
	h := commands.NewChangeCourierStatusCommandHandler(c.uowFactory, c.locationCache(), c.logger)
	return &h
}

func (c *CompositionRoot) NewUpdateCourierLocationCommandHandler() *commands.UpdateCourierLocationCommandHandler {
	h := commands.NewUpdateCourierLocationCommandHandler(c.uowFactory, c.locationCache(), c.producer, c.logger)
	return &h
}

func (c *CompositionRoot) NewCreateVendorCommandHandler() *commands.CreateVendorCommandHandler {
	h := commands.NewCreateVendorCommandHandler(c.uowFactory)
	return &h
}

func (c *CompositionRoot) NewChangeVendorStatusCommandHandler() *commands.ChangeVendorStatusCommandHandler {
	h := commands.NewChangeVendorStatusCommandHandler(c.uowFactory, c.producer, c.producer, c.lifecycle, c.logger)
	return &h
}

func (c *CompositionRoot) NewAssignCourierCommandHandler() *commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(
		c.uowFactory, c.directory, c.locationCache(), c.producer, c.producer, c.lifecycle, c.dispatch, c.logger)
}

func (c *CompositionRoot) NewRequeuePendingOrdersCommandHandler() *commands.RequeuePendingOrdersCommandHandler {
	h := commands.NewRequeuePendingOrdersCommandHandler(c.uowFactory, c.producer, c.lifecycle, c.logger)
	return &h
}

func (c *CompositionRoot) NewRelayOutboxCommandHandler() *commands.RelayOutboxCommandHandler {
	h := commands.NewRelayOutboxCommandHandler(c.uowFactory, c.producer, c.lifecycle, c.logger)
	return &h
}

func (c *CompositionRoot) NewGetOrderQueryHandler() *queries.GetOrderQueryHandler {
	h := queries.NewGetOrderQueryHandler(c.uowFactory)
	return &h
}

func (c *CompositionRoot) NewListOrdersQueryHandler() *queries.ListOrdersQueryHandler {
	h := queries.NewListOrdersQueryHandler(c.uowFactory)
	return &h
}

func (c *CompositionRoot) NewGetCourierQueryHandler() *queries.GetCourierQueryHandler {
	h := queries.NewGetCourierQueryHandler(c.uowFactory)
	return &h
}

func (c *CompositionRoot) NewGetVendorQueryHandler() *queries.GetVendorQueryHandler {
	h := queries.NewGetVendorQueryHandler(c.uowFactory)
	return &h
}

func (c *CompositionRoot) NewListVendorsQueryHandler() *queries.ListVendorsQueryHandler {
	h := queries.NewListVendorsQueryHandler(c.uowFactory)
	return &h
}

func (c *CompositionRoot) NewListAvailableCouriersQueryHandler() *queries.ListAvailableCouriersQueryHandler {
	h := queries.NewListAvailableCouriersQueryHandler(c.gormDB)
	return &h
}

func (c *CompositionRoot) NewGetCourierLocationQueryHandler() *queries.GetCourierLocationQueryHandler {
	h := queries.NewGetCourierLocationQueryHandler(c.directory)
	return &h
}

// NewServer builds the HTTP API over every use case.
func (c *CompositionRoot) NewServer() *http.Server {
	return http.NewServer(http.Handlers{
		CreateOrder:           c.NewCreateOrderCommandHandler(),
		UpdateOrderStatus:     c.NewUpdateOrderStatusCommandHandler(),
		CreateCourier:         c.NewCreateCourierCommandHandler(),
		ChangeCourierStatus:   c.NewChangeCourierStatusCommandHandler(),
		UpdateCourierLocation: c.NewUpdateCourierLocationCommandHandler(),
		CreateVendor:          c.NewCreateVendorCommandHandler(),
		ChangeVendorStatus:    c.NewChangeVendorStatusCommandHandler(),
		GetOrder:              c.NewGetOrderQueryHandler(),
		ListOrders:            c.NewListOrdersQueryHandler(),
		GetCourier:            c.NewGetCourierQueryHandler(),
		ListAvailableCouriers: c.NewListAvailableCouriersQueryHandler(),
		GetCourierLocation:    c.NewGetCourierLocationQueryHandler(),
		GetVendor:             c.NewGetVendorQueryHandler(),
		ListVendors:           c.NewListVendorsQueryHandler(),
		Health:                c.Ping,
	}, c.registry)
}

// NewAssignmentConsumer subscribes the assignment engine to the request topic.
func (c *CompositionRoot) NewAssignmentConsumer() (*kafkain.Consumer, error) {
	return kafkain.NewConsumer(
		c.cfg.KafkaBrokers,
		c.cfg.KafkaConsumerGroup,
		c.cfg.KafkaAssignmentTopic,
		c.NewAssignCourierCommandHandler(),
		c.logger,
	)
}

// NewJobManager schedules the requeue and outbox relay jobs.
func (c *CompositionRoot) NewJobManager() (*jobs.JobManager, error) {
	requeueCmd, err := commands.NewRequeuePendingOrdersCommand(c.cfg.RequeueAfter, c.cfg.RequeueBatch)
	if err != nil {
		return nil, err
	}
	relayCmd, err := commands.NewRelayOutboxCommand(c.cfg.RelayBatch)
	if err != nil {
		return nil, err
	}

	return jobs.NewJobManager(
		jobs.NewRequeuePendingOrdersJob(
			c.NewRequeuePendingOrdersCommandHandler(), requeueCmd, c.cfg.RequeueSchedule, c.logger),
		jobs.NewOutboxRelayJob(
			c.NewRelayOutboxCommandHandler(), relayCmd, c.cfg.RelaySchedule, c.logger),
	), nil
}

// Ping checks the database and the cache.
func (c *CompositionRoot) Ping(ctx context.Context) error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return errors.Join(sqlDB.PingContext(ctx), c.redis.Ping(ctx).Err())
}

// Close releases the producer, the cache client and the database pool.
func (c *CompositionRoot) Close() error {
	var closeErrs []error
	closeErrs = append(closeErrs, c.producer.Close(), c.redis.Close())
	if sqlDB, err := c.gormDB.DB(); err != nil {
		closeErrs = append(closeErrs, err)
	} else {
		closeErrs = append(closeErrs, sqlDB.Close())
	}
	return errors.Join(closeErrs...)
}
