package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
	inventoryapp "github.com/erp/catalogsync/internal/application/inventory"
	"github.com/erp/catalogsync/internal/infrastructure/cache"
	"github.com/erp/catalogsync/internal/infrastructure/config"
	"github.com/erp/catalogsync/internal/infrastructure/ecommerce"
	"github.com/erp/catalogsync/internal/infrastructure/logger"
	"github.com/erp/catalogsync/internal/infrastructure/persistence"
	"github.com/erp/catalogsync/internal/infrastructure/storage"
	"github.com/erp/catalogsync/internal/infrastructure/telemetry"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// app holds the components of one process
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *persistence.Database
	engine *integrationapp.Engine

	tracingEnabled bool
	shutdown       []func(context.Context) error
}

// bootstrap loads configuration and wires the synchronization engine
func bootstrap(c *cli.Context) (*app, error) {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}
	if err := a.wire(c.Context); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg

	a.log.Info("Starting catalog sync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("magento", cfg.Magento.BaseURL()),
	)

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}
	lp, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize log export: %w", err)
	}
	a.onShutdown(lp.Shutdown)
	a.log = lp.Bridge(a.log, a.log.Level())

	tp, err := telemetry.NewTracerProvider(ctx, telemetryCfg, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.onShutdown(tp.Shutdown)
	a.tracingEnabled = tp.IsEnabled()

	mp, err := telemetry.NewMeterProvider(ctx, telemetryCfg, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	a.onShutdown(mp.Shutdown)

	syncMetrics, err := telemetry.NewSyncMetrics(mp.Meter(telemetry.TracerName))
	if err != nil {
		return fmt.Errorf("failed to register sync metrics: %w", err)
	}

	db, err := persistence.NewDatabaseWithLogger(
		&cfg.Database, a.log,
		logger.MapGormLogLevel(cfg.Log.Level),
		cfg.Telemetry.DBLogFullSQL,
	)
	if err != nil {
		return err
	}
	a.db = db
	a.onShutdown(func(context.Context) error { return db.Close() })

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         a.tracingEnabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowThreshold,
		DBSystem:        dbSystem(cfg.Database.Driver),
	}, a.log)
	if err := dbTracing.Register(db.DB); err != nil {
		return fmt.Errorf("failed to register database tracing: %w", err)
	}

	// postgres schemas are owned by cmd/migrate
	if db.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	magento, err := ecommerce.NewMagentoAdapter(ecommerce.NewMagentoConfig(cfg.Magento), a.log)
	if err != nil {
		return fmt.Errorf("failed to create magento adapter: %w", err)
	}

	assets, err := storage.NewAssetStore(ctx, cfg.Assets, &cfg.Storage, a.log)
	if err != nil {
		return fmt.Errorf("failed to create asset store: %w", err)
	}

	locker, lockCloser, err := cache.NewSKULockerFactory(cfg.Import, cfg.Redis,
		cache.WithLogger(a.log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create()
	if err != nil {
		return err
	}
	a.onShutdown(closerFunc(lockCloser))

	repos := persistence.NewRepositories(db.DB)
	stock := inventoryapp.NewStockReceiptService(repos.StockTransactions, a.log)

	a.engine = integrationapp.NewEngine(magento, magento, assets, repos, stock, integrationapp.EngineConfig{
		MediaBaseURL:     cfg.Magento.URL,
		OverwriteAssets:  cfg.Assets.Overwrite,
		MaxCategoryDepth: cfg.Import.MaxCategoryDepth,
		DefaultCurrency:  cfg.Import.DefaultCurrency,
		Sync: integrationapp.SyncConfig{
			LocationID:           cfg.Import.LocationID,
			BroadenAttributeSets: cfg.Import.BroadenAttributeSets,
			SanitizeDescription:  cfg.Import.SanitizeDescription,
			Timeout:              cfg.Import.JobTimeout,
		},
		Batch: integrationapp.BatchConfig{
			Workers:       cfg.Import.Workers,
			PageSize:      cfg.Magento.PageSize,
			RetryAttempts: cfg.Import.RetryAttempts,
			RetryDelay:    cfg.Import.RetryDelay,
		},
	}, a.log).
		WithSKULocker(locker).
		WithSyncRecorder(syncMetrics)

	return nil
}

func (a *app) onShutdown(fn func(context.Context) error) {
	a.shutdown = append(a.shutdown, fn)
}

// close releases resources in reverse order of acquisition
func (a *app) close() {
	var errs []error
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Error("Error during shutdown", zap.Error(err))
	}
	_ = logger.Sync(a.log)
}

func closerFunc(c io.Closer) func(context.Context) error {
	return func(context.Context) error { return c.Close() }
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}
