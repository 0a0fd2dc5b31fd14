package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	clusterfixture "github.com/minglemakers/minglemakers-api/internal/domains/clusters/adapters/fixture"
	clustersapp "github.com/minglemakers/minglemakers-api/internal/domains/clusters/application"
	orderfixture "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/fixture"
	ordersmemory "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/memory"
	ordersnotify "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/notify"
	ordersobs "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/workflows"
	orderspostgres "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/persistence/postgres"
	orderssqlite "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/persistence/sqlite"
	ordersapp "github.com/minglemakers/minglemakers-api/internal/domains/orders/application"
	ordersports "github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
	"github.com/minglemakers/minglemakers-api/internal/platform/migrations"
	platformobservability "github.com/minglemakers/minglemakers-api/internal/platform/observability"
	platformpostgres "github.com/minglemakers/minglemakers-api/internal/platform/postgres"
	platformsqlite "github.com/minglemakers/minglemakers-api/internal/platform/sqlite"
)

// Components are the application services shared by the API, the worker and the CLI.
type Components struct {
	Orders   ordersports.Service
	Clusters *clustersapp.Service
	// DB is set when the order store is PostgreSQL.
	DB       *gorm.DB
	notifier *ordersnotify.Async
	closers  []func()
}

// Close drains pending notifications and releases store connections.
func (c *Components) Close(ctx context.Context) error {
	var err error
	if c.notifier != nil {
		err = c.notifier.Close(ctx)
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	return err
}

// BuildComponents wires the order store selected by cfg, the notification sinks and the
// observability decorator around the lifecycle manager.
func BuildComponents(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Components, error) {
	logger := effectiveLogger(instruments)
	components := &Components{}

	store, err := components.buildOrderStore(ctx, cfg, logger)
	if err != nil {
		_ = components.Close(ctx)
		return nil, err
	}

	sinks := ordersnotify.Multi{ordersnotify.NewLogSink(logger)}
	if components.DB != nil {
		sinks = append(sinks, ordersnotify.NewOutbox(components.DB, cfg.NotifyChannel, logger))
	}
	components.notifier = ordersnotify.NewAsync(sinks,
		ordersnotify.WithBuffer(cfg.NotifyBuffer),
		ordersnotify.WithDropLogger(logger),
	)

	core := ordersapp.NewService(store, ordersapp.WithNotificationSink(components.notifier))
	components.Orders = ordersobs.New(
		core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	directory, err := clusterfixture.LoadFile(cfg.MembersFixture)
	if err != nil {
		_ = components.Close(ctx)
		return nil, err
	}
	components.Clusters = clustersapp.NewService(directory)
	return components, nil
}

// SeedOrders writes the order fixture when the store is empty.
func SeedOrders(ctx context.Context, cfg Config, service ordersports.Service, logger *slog.Logger) error {
	orders, err := orderfixture.LoadFile(cfg.OrdersFixture)
	if err != nil {
		return err
	}
	seeded, err := service.Seed(ctx, orders)
	if err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	if seeded {
		logger.Info("order store seeded from fixture", slog.Int("orders", len(orders)))
	}
	return nil
}

func (c *Components) buildOrderStore(ctx context.Context, cfg Config, logger *slog.Logger) (ordersports.OrderStore, error) {
	switch cfg.OrderStore {
	case StorePostgres:
		db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("unwrap postgres connection: %w", err)
		}
		c.closers = append(c.closers, func() { _ = sqlDB.Close() })
		if err := migrations.Run(db); err != nil {
			return nil, err
		}
		c.DB = db
		logger.Info("order store configured with postgres")
		return orderspostgres.NewStore(db), nil
	case StoreSQLite:
		db, err := platformsqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { _ = db.Close() })
		store, err := orderssqlite.NewStore(ctx, db)
		if err != nil {
			return nil, err
		}
		logger.Info("order store configured with sqlite", slog.String("path", cfg.SQLitePath))
		return store, nil
	default:
		logger.Warn("using in-memory order store; changes are lost on exit")
		return ordersmemory.NewStore(), nil
	}
}

// SelectOrderWorkflows decides where advances run. The worker keeps its own order store,
// so Temporal is used only with a shared (postgres or sqlite) store; the in-memory store
// always advances inline. The returned func releases the Temporal client, if any.
func SelectOrderWorkflows(cfg Config, service ordersports.Service, instruments *platformobservability.Instruments) (ordersports.WorkflowOrchestrator, func()) {
	logger := effectiveLogger(instruments)
	inline := ordersworkflows.NewInlineOrderWorkflows(service)
	if cfg.OrderStore == StoreMemory {
		logger.Info("in-memory order store is not shared with the worker, advancing orders inline")
		return inline, func() {}
	}
	temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client")
	if err != nil {
		logger.Warn("Temporal workflows unavailable, advancing orders inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return ordersworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}

// ConnectTemporal dials Temporal with tracing and structured logging, unless disabled.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
