package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/infrastructure/event"
	"github.com/erp/catalogsync/internal/infrastructure/scheduler"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const queueFullBackoff = 500 * time.Millisecond

var currencyFlag = &cli.StringFlag{
	Name:  "currency",
	Usage: "ISO 4217 price currency; defaults to the store base currency",
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Synchronize the given SKUs",
		ArgsUsage: "[sku...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "sku", Aliases: []string{"s"}, Usage: "SKU to synchronize, repeatable"},
			&cli.StringFlag{Name: "arr", Usage: "space separated SKU list"},
			currencyFlag,
		},
		Action: withApp(func(c *cli.Context, a *app) error {
			skus := collectSKUs(c.StringSlice("sku"), c.String("arr"), c.Args().Slice())
			if len(skus) == 0 {
				return cli.Exit("no SKU given, use --sku, --arr or arguments", 2)
			}
			result := a.engine.Batch.ImportSKUs(c.Context, skus, c.String("currency"))
			return reportBatch(c, result)
		}),
	}
}

func importAllCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-all",
		Usage: "Synchronize every SKU of the remote catalog",
		Flags: []cli.Flag{currencyFlag},
		Action: withApp(func(c *cli.Context, a *app) error {
			result, err := a.engine.Batch.ImportAll(c.Context, c.String("currency"))
			if err != nil {
				return err
			}
			return reportBatch(c, result)
		}),
	}
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "Import the remote category tree into a vocabulary",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "vocabulary", Usage: "target vocabulary id; defaults to import.vocabulary"},
		},
		Action: withApp(func(c *cli.Context, a *app) error {
			vocabulary := c.String("vocabulary")
			if vocabulary == "" {
				vocabulary = a.cfg.Import.Vocabulary
			}
			report, err := a.engine.Taxonomy.ImportTree(c.Context, vocabulary)
			if err != nil {
				return err
			}
			return printJSON(c, report)
		}),
	}
}

func productTypesCommand() *cli.Command {
	return &cli.Command{
		Name:  "product-types",
		Usage: "Create a product type for every remote attribute set",
		Action: withApp(func(c *cli.Context, a *app) error {
			created, err := a.engine.ProductTypes.ImportProductTypes(c.Context)
			if err != nil {
				return err
			}
			return printJSON(c, map[string]int{"created": created})
		}),
	}
}

func enqueueCommand() *cli.Command {
	return &cli.Command{
		Name:      "enqueue",
		Usage:     "Publish SKU jobs to the queue for workers to pick up",
		ArgsUsage: "[sku...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "sku", Aliases: []string{"s"}, Usage: "SKU to enqueue, repeatable"},
			&cli.StringFlag{Name: "arr", Usage: "space separated SKU list"},
			currencyFlag,
		},
		Action: withApp(func(c *cli.Context, a *app) error {
			if !a.cfg.Kafka.Enabled() {
				return cli.Exit("kafka.brokers is not configured", 2)
			}
			skus := collectSKUs(c.StringSlice("sku"), c.String("arr"), c.Args().Slice())
			if len(skus) == 0 {
				return cli.Exit("no SKU given, use --sku, --arr or arguments", 2)
			}

			publisher := event.NewKafkaJobPublisher(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic, a.log)
			defer func() {
				if err := publisher.Close(); err != nil {
					a.log.Warn("Failed to close publisher", zap.Error(err))
				}
			}()
			if err := publisher.Publish(c.Context, strings.ToUpper(c.String("currency")), skus...); err != nil {
				return err
			}
			return printJSON(c, map[string]any{"queued": len(skus), "topic": a.cfg.Kafka.Topic})
		}),
	}
}

func workerCommand() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "Consume SKU jobs from the queue until interrupted",
		Action: withApp(func(c *cli.Context, a *app) error {
			if !a.cfg.Kafka.Enabled() {
				return cli.Exit("kafka.brokers is not configured", 2)
			}
			ctx, stop := signalContext(c.Context)
			defer stop()
			return a.runWorker(ctx)
		}),
	}
}

// runWorker feeds queued jobs into the scheduler pool until ctx is done
func (a *app) runWorker(ctx context.Context) error {
	sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
		MaxConcurrentJobs: a.cfg.Import.Workers,
		QueueSize:         a.cfg.Import.QueueSize,
		JobTimeout:        a.cfg.Import.JobTimeout,
		RetryAttempts:     a.cfg.Import.RetryAttempts,
		RetryDelay:        a.cfg.Import.RetryDelay,
	}, scheduler.NewSyncExecutor(a.engine.Synchronizer, a.log), a.log)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Import.JobTimeout)
		defer cancel()
		if err := sched.Stop(stopCtx); err != nil {
			a.log.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}()

	handler := event.JobHandlerFunc(func(ctx context.Context, msg event.SKUJobMessage) error {
		currency := a.engine.Currency.Resolve(ctx, msg.Currency)
		return submitJob(ctx, sched, scheduler.NewJob(msg.SKU, currency, a.cfg.Import.RetryAttempts))
	})
	consumer := event.NewKafkaJobConsumer(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic, a.cfg.Kafka.GroupID, handler, a.log)
	return consumer.Run(ctx)
}

// submitJob blocks while the scheduler queue is full
func submitJob(ctx context.Context, sched *scheduler.Scheduler, job *scheduler.Job) error {
	for {
		err := sched.SubmitJob(job)
		if !errors.Is(err, scheduler.ErrJobQueueFull) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(queueFullBackoff):
		}
	}
}

func collectSKUs(flags []string, arr string, args []string) []string {
	seen := make(map[string]struct{})
	var skus []string
	add := func(values []string) {
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			skus = append(skus, v)
		}
	}
	add(flags)
	add(integrationapp.SplitSKUs(arr))
	add(args)
	return skus
}

// reportBatch prints result and fails the command when nothing was synchronized
func reportBatch(c *cli.Context, result *integration.BatchResult) error {
	if err := printJSON(c, result); err != nil {
		return err
	}
	if result.Status == integration.SyncStatusFailed {
		return cli.Exit(fmt.Sprintf("run %s: all %d SKUs failed", result.RunID, result.TotalCount), 1)
	}
	return nil
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
