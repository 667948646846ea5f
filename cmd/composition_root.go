package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/payment"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/redis"
	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use cases. Build it once per process.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	hub         *ws.Hub
	redisClient *goredis.Client
	relay       *redis.Relay
	publisher   *kafka.Publisher
	fanout      *notify.Fanout
	gateway     *payment.Gateway
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		hub:        ws.NewHub(logger),
	}

	// Without Redis the fanout pushes straight into the local hub; with it,
	// every push goes through the channel and each instance's relay feeds
	// its own hub.
	var push ports.PushChannel = c.hub
	if cfg.RedisAddr != "" {
		c.redisClient = redis.NewClient(cfg.RedisAddr)
		c.relay = redis.NewRelay(c.redisClient, cfg.RedisPushChannel, c.hub, logger)
		push = c.relay
	}

	var publisher ports.EventPublisher
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		c.publisher = kafka.NewPublisher(kafka.NewWriter(brokers, cfg.KafkaOrderEventsTopic))
		publisher = c.publisher
	}

	fanout, err := notify.NewFanout(push, publisher, cfg.PushTimeout, logger)
	if err != nil {
		return nil, err
	}
	c.fanout = fanout

	c.gateway, err = payment.NewGateway(payment.Config{
		BaseURL:  cfg.PaymentBaseURL,
		KeyID:    cfg.PaymentKeyID,
		Secret:   cfg.PaymentSecret,
		Currency: cfg.PaymentCurrency,
	}, nil)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

// Relay is nil when REDIS_ADDR is empty.
func (c *CompositionRoot) Relay() *redis.Relay {
	return c.relay
}

func (c *CompositionRoot) Close() error {
	var errList []error
	if c.publisher != nil {
		errList = append(errList, c.publisher.Close())
	}
	if c.redisClient != nil {
		errList = append(errList, c.redisClient.Close())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) placementPolicy() (commands.PlacementPolicy, error) {
	fee, err := c.cfg.Fee()
	if err != nil {
		return commands.PlacementPolicy{}, err
	}
	rate, err := c.cfg.CommissionRate()
	if err != nil {
		return commands.PlacementPolicy{}, err
	}
	return commands.PlacementPolicy{DeliveryFee: fee, DefaultCommission: rate}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) riderUoWFactory() commands.RiderUoWFactory {
	return FuncRiderUoWFactory(func() commands.RiderUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) placementUoWFactory() commands.PlacementUoWFactory {
	return FuncPlacementUoWFactory(func() commands.PlacementUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) commissionUoWFactory() commands.CommissionUoWFactory {
	return FuncCommissionUoWFactory(func() commands.CommissionUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) paymentUoWFactory() commands.PaymentUoWFactory {
	return FuncPaymentUoWFactory(func() commands.PaymentUoW { return c.uowFactory.Create() })
}

// Handlers builds every command and query handler the API serves.
func (c *CompositionRoot) Handlers() (httpin.Handlers, error) {
	var h httpin.Handlers

	policy, err := c.placementPolicy()
	if err != nil {
		return h, err
	}
	rate, err := c.cfg.CommissionRate()
	if err != nil {
		return h, err
	}

	var errList []error
	collect := func(err error) {
		if err != nil {
			errList = append(errList, err)
		}
	}

	h.PlaceOrder, err = commands.NewPlaceOrderCommandHandler(c.placementUoWFactory(), c.gateway, c.fanout, policy)
	collect(err)
	h.TransitionOrder, err = commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.fanout)
	collect(err)
	h.ClaimOrder, err = commands.NewClaimOrderCommandHandler(c.dispatchUoWFactory(), c.riderUoWFactory(), c.fanout, c.logger)
	collect(err)
	h.DeliverOrder, err = commands.NewDeliverOrderCommandHandler(c.dispatchUoWFactory(), c.fanout)
	collect(err)
	h.RegisterRider, err = commands.NewRegisterRiderCommandHandler(c.riderUoWFactory())
	collect(err)
	h.ToggleAvailability, err = commands.NewToggleAvailabilityCommandHandler(c.riderUoWFactory())
	collect(err)
	h.ApproveRider, err = commands.NewApproveRiderCommandHandler(c.riderUoWFactory())
	collect(err)
	h.UpdateCommissionRate, err = commands.NewUpdateCommissionRateCommandHandler(c.commissionUoWFactory())
	collect(err)
	h.VerifyPayment, err = commands.NewVerifyPaymentCommandHandler(c.paymentUoWFactory(), c.gateway)
	collect(err)
	if len(errList) > 0 {
		return h, fmt.Errorf("building command handlers: %w", errors.Join(errList...))
	}

	h.GetOrder = queries.NewGetOrderQueryHandler(c.gormDB)
	h.ListOrders = queries.NewListOrdersQueryHandler(c.gormDB)
	h.ListClaimableOrders = queries.NewListClaimableOrdersQueryHandler(c.gormDB)
	h.GetRiderActiveOrder = queries.NewGetRiderActiveOrderQueryHandler(c.gormDB)
	h.GetEarnings = queries.NewGetEarningsQueryHandler(c.gormDB)
	h.GetAdminDashboard = queries.NewGetAdminDashboardQueryHandler(c.gormDB)
	h.GetCommissionRate = queries.NewGetCommissionRateQueryHandler(c.gormDB, rate)
	h.ListCommissionHistory = queries.NewListCommissionHistoryQueryHandler(c.gormDB)
	return h, nil
}

// Server builds the HTTP API over Handlers.
func (c *CompositionRoot) Server() (*httpin.Server, error) {
	h, err := c.Handlers()
	if err != nil {
		return nil, err
	}
	return httpin.NewServer(h, c.hub, httpin.Config{
		JWTSecret:       []byte(c.cfg.JWTSecret),
		PaymentKeyID:    c.cfg.PaymentKeyID,
		PaymentCurrency: c.cfg.PaymentCurrency,
	}), nil
}

// JobManager schedules the rebroadcast and reconcile jobs.
func (c *CompositionRoot) JobManager() (*jobs.JobManager, error) {
	reconcile, err := commands.NewReconcileRiderAvailabilityCommandHandler(c.riderUoWFactory())
	if err != nil {
		return nil, err
	}

	return jobs.NewJobManager(c.logger,
		jobs.Schedule{
			Spec: c.cfg.RebroadcastSchedule,
			Job: jobs.NewClaimableOrdersRebroadcastJob(
				queries.NewListClaimableOrdersQueryHandler(c.gormDB), c.fanout, c.cfg.RebroadcastAfter, c.logger),
		},
		jobs.Schedule{
			Spec: c.cfg.ReconcileSchedule,
			Job:  jobs.NewRiderAvailabilityReconcileJob(reconcile, c.logger),
		},
	), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRiderUoWFactory func() commands.RiderUoW

func (f FuncRiderUoWFactory) Create() commands.RiderUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncPlacementUoWFactory func() commands.PlacementUoW

func (f FuncPlacementUoWFactory) Create() commands.PlacementUoW {
	return f()
}

type FuncCommissionUoWFactory func() commands.CommissionUoW

func (f FuncCommissionUoWFactory) Create() commands.CommissionUoW {
	return f()
}

type FuncPaymentUoWFactory func() commands.PaymentUoW

func (f FuncPaymentUoWFactory) Create() commands.PaymentUoW {
	return f()
}
