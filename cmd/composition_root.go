package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	httpin "deliverydispatch/internal/adapters/in/http"
	kafkain "deliverydispatch/internal/adapters/in/kafka"
	"deliverydispatch/internal/adapters/out/grpc/geo"
	kafkaout "deliverydispatch/internal/adapters/out/kafka"
	"deliverydispatch/internal/adapters/out/postgres"
	"deliverydispatch/internal/adapters/out/postgres/outboxrepo"
	"deliverydispatch/internal/core/application/eventhandlers"
	"deliverydispatch/internal/core/application/usecases/commands"
	"deliverydispatch/internal/core/application/usecases/queries"
	"deliverydispatch/internal/core/domain/model/order"
	"deliverydispatch/internal/core/ports"
	"deliverydispatch/internal/jobs"
	"deliverydispatch/internal/pkg/metrics"
	"deliverydispatch/internal/pkg/outbox"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters to use cases. It owns the outbound connections it opens.
type CompositionRoot struct {
	cfg    Config
	gormDB *gorm.DB
	logger *slog.Logger

	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	uowFactory *postgres.GormUnitOfWorkFactory

	geoConn     *grpc.ClientConn
	producer    *kafkaout.OrderStatusProducer
	idempotency ports.IdempotencyStore
}

// NewCompositionRoot opens the geo service connection and the Kafka producer.
// Both are lazy and do not touch the network until first use. idempotency may be nil,
// in which case completed-order events are published without deduplication.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	idempotency ports.IdempotencyStore,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	geoConn, err := geo.Dial(cfg.GeoServiceGrpcHost)
	if err != nil {
		return nil, err
	}

	producer, err := kafkaout.NewOrderStatusProducer(cfg.KafkaHost, cfg.KafkaOrderChangedTopic)
	if err != nil {
		_ = geoConn.Close()
		return nil, err
	}

	return &CompositionRoot{
		cfg:         cfg,
		gormDB:      gormDB,
		logger:      logger,
		registry:    registry,
		metrics:     m,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB, postgres.WithCaptureMetrics(m)),
		geoConn:     geoConn,
		producer:    producer,
		idempotency: idempotency,
	}, nil
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, geo.NewClient(c.geoConn, c.cfg.GeoServiceTimeout))
}

func (c *CompositionRoot) CreateMoveCouriersCommandHandler() commands.MoveCouriersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewMoveCouriersCommandHandler(f, c.metrics)
}

func (c *CompositionRoot) CreateAssignOrdersCommandHandler() commands.AssignOrdersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignOrdersCommandHandler(f, c.metrics)
}

func (c *CompositionRoot) CreateGetAllCouriersQueryHandler() queries.GetAllCouriersQueryHandler {
	return queries.NewGetAllCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBusyCouriersQueryHandler() queries.GetBusyCouriersQueryHandler {
	return queries.NewGetBusyCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUncompletedOrdersQueryHandler() queries.GetUncompletedOrdersQueryHandler {
	return queries.NewGetUncompletedOrdersQueryHandler(c.gormDB)
}

// CreateOutboxProcessor routes captured order events to the Kafka publisher.
func (c *CompositionRoot) CreateOutboxProcessor() (*outbox.Processor, error) {
	registry := outbox.NewRegistry()
	outbox.RegisterJSON[order.CompletedDomainEvent](registry, order.CompletedDomainEventType)

	completed, err := eventhandlers.NewOrderCompletedHandler(c.producer, c.idempotency)
	if err != nil {
		return nil, fmt.Errorf("order completed handler: %w", err)
	}

	mediator := outbox.NewMediator()
	mediator.Subscribe(order.CompletedDomainEventType, completed)

	return outbox.NewProcessor(
		outboxrepo.NewGormOutboxStore(c.gormDB),
		registry,
		mediator,
		c.logger,
		outbox.WithBatchSize(c.cfg.OutboxBatchSize),
		outbox.WithMetrics(c.metrics),
	)
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	processor, err := c.CreateOutboxProcessor()
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(
		c.CreateAssignOrdersCommandHandler(),
		c.CreateMoveCouriersCommandHandler(),
		processor,
		c.metrics,
		c.logger,
	), nil
}

func (c *CompositionRoot) CreateBasketConfirmedConsumer() *kafkain.BasketConfirmedConsumer {
	return kafkain.NewBasketConfirmedConsumer(kafkain.ReaderConfig{
		Brokers: c.cfg.KafkaHost,
		Topic:   c.cfg.KafkaBasketConfirmedTopic,
		GroupID: c.cfg.KafkaConsumerGroup,
	}, c.CreateCreateOrderCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() (*echo.Echo, error) {
	server := httpin.NewServer(
		c.CreateCreateCourierCommandHandler(),
		c.CreateCreateOrderCommandHandler(),
		c.CreateGetAllCouriersQueryHandler(),
		c.CreateGetBusyCouriersQueryHandler(),
		c.CreateGetUncompletedOrdersQueryHandler(),
	)
	return httpin.NewEcho(server, c.registry, c.registry)
}

// Close releases the outbound connections.
func (c *CompositionRoot) Close() error {
	return errors.Join(c.producer.Close(), c.geoConn.Close())
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
