package main

import (
	"context"

	"github.com/erp/catalogsync/internal/infrastructure/event"
	"github.com/erp/catalogsync/internal/infrastructure/scheduler"
	"github.com/erp/catalogsync/internal/interfaces/http/handler"
	"github.com/erp/catalogsync/internal/interfaces/http/middleware"
	"github.com/erp/catalogsync/internal/interfaces/http/router"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API, the cron imports and the queue worker",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-worker", Usage: "do not consume queued jobs in this process"},
			&cli.BoolFlag{Name: "no-cron", Usage: "do not run scheduled imports in this process"},
		},
		Action: withApp(func(c *cli.Context, a *app) error {
			ctx, stop := signalContext(c.Context)
			defer stop()
			return a.serve(ctx, !c.Bool("no-worker"), !c.Bool("no-cron"))
		}),
	}
}

func (a *app) serve(ctx context.Context, worker, cron bool) error {
	cfg := a.cfg
	g, ctx := errgroup.WithContext(ctx)

	var publisher handler.JobPublisher
	if cfg.Kafka.Enabled() {
		p := event.NewKafkaJobPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, a.log)
		defer func() {
			if err := p.Close(); err != nil {
				a.log.Warn("Failed to close publisher", zap.Error(err))
			}
		}()
		publisher = p
	}

	syncHandler := handler.NewSyncHandler(handler.SyncHandlerConfig{
		Products:     a.engine.Synchronizer,
		Batch:        a.engine.Batch,
		Categories:   a.engine.Taxonomy,
		ProductTypes: a.engine.ProductTypes,
		Currency:     a.engine.Currency,
		Publisher:    publisher,
		Vocabulary:   cfg.Import.Vocabulary,
		Topic:        cfg.Kafka.Topic,
	})
	httpCfg := router.Config{
		Addr:           cfg.HTTP.Addr(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxBodySize:    middleware.DefaultMaxBodySize,
		Release:        cfg.App.Env == "production",
		TracingEnabled: a.tracingEnabled,
		ServiceName:    cfg.Telemetry.ServiceName,
	}

	if cron && cfg.Cron.Enabled {
		trigger := scheduler.NewCatalogCronTrigger(scheduler.CronTriggerConfig{
			CatalogSpec:    cfg.Cron.CatalogSpec,
			CategoriesSpec: cfg.Cron.CategoriesSpec,
			Vocabulary:     cfg.Import.Vocabulary,
		}, a.engine.Batch, a.engine.Taxonomy, a.log)
		if err := trigger.Start(ctx); err != nil {
			return err
		}
		g.Go(func() error {
			<-ctx.Done()
			return trigger.Stop(context.Background())
		})
	}

	engine := router.NewEngine(httpCfg, syncHandler, handler.NewHealthHandler(a.db), a.log)
	server := router.NewServer(httpCfg, engine, a.log)
	g.Go(func() error { return server.Run(ctx) })

	if worker && cfg.Kafka.Enabled() {
		g.Go(func() error { return a.runWorker(ctx) })
	}

	a.log.Info("Catalog sync serving",
		zap.String("addr", httpCfg.Addr),
		zap.Bool("cron", cron && cfg.Cron.Enabled),
		zap.Bool("worker", worker && cfg.Kafka.Enabled()),
	)
	return g.Wait()
}
