package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CatalogImporter runs a full catalog import
type CatalogImporter interface {
	ImportAll(ctx context.Context, currency string) (*integration.BatchResult, error)
}

// CategoryImporter imports the remote category tree
type CategoryImporter interface {
	ImportTree(ctx context.Context, vocabularyID string) (*integrationapp.TaxonomyReport, error)
}

// CronTriggerConfig holds the schedules of the periodic imports. Specs use
// six fields, seconds first. An empty spec disables that import.
type CronTriggerConfig struct {
	CatalogSpec    string
	CategoriesSpec string
	Vocabulary     string
	Currency       string
	RunTimeout     time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		CatalogSpec:    "0 0 3 * * *",
		CategoriesSpec: "0 30 2 * * *",
		Vocabulary:     "magento_categories",
		RunTimeout:     4 * time.Hour,
	}
}

// CatalogCronTrigger runs the full catalog import and the category tree
// import on cron schedules. A run is skipped while the previous run of the
// same import is still going.
type CatalogCronTrigger struct {
	config     CronTriggerConfig
	catalog    CatalogImporter
	categories CategoryImporter
	logger     *zap.Logger

	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	isRunning bool
}

// NewCatalogCronTrigger creates a new CatalogCronTrigger
func NewCatalogCronTrigger(
	config CronTriggerConfig,
	catalog CatalogImporter,
	categories CategoryImporter,
	logger *zap.Logger,
) *CatalogCronTrigger {
	if config.RunTimeout <= 0 {
		config.RunTimeout = DefaultCronTriggerConfig().RunTimeout
	}
	logger = logger.Named("cron")
	return &CatalogCronTrigger{
		config:     config,
		catalog:    catalog,
		categories: categories,
		logger:     logger,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// Start registers the schedules and starts the cron loop
func (c *CatalogCronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	if c.config.CategoriesSpec != "" && c.categories != nil {
		if _, err := c.cron.AddFunc(c.config.CategoriesSpec, c.RunCategories); err != nil {
			c.cancel()
			return fmt.Errorf("%w: categories spec %q: %v", ErrInvalidConfig, c.config.CategoriesSpec, err)
		}
	}
	if c.config.CatalogSpec != "" && c.catalog != nil {
		if _, err := c.cron.AddFunc(c.config.CatalogSpec, c.RunCatalog); err != nil {
			c.cancel()
			return fmt.Errorf("%w: catalog spec %q: %v", ErrInvalidConfig, c.config.CatalogSpec, err)
		}
	}
	c.cron.Start()
	c.isRunning = true

	c.logger.Info("Cron trigger started",
		zap.String("catalog_spec", c.config.CatalogSpec),
		zap.String("categories_spec", c.config.CategoriesSpec),
		zap.Int("entries", len(c.cron.Entries())),
	)
	return nil
}

// Stop stops scheduling and waits for a running import to return
func (c *CatalogCronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	c.cancel()
	stopped := c.cron.Stop()

	select {
	case <-stopped.Done():
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunCatalog imports the whole catalog once
func (c *CatalogCronTrigger) RunCatalog() {
	ctx, cancel := context.WithTimeout(c.baseContext(), c.config.RunTimeout)
	defer cancel()

	c.logger.Info("Triggering scheduled catalog import")
	result, err := c.catalog.ImportAll(ctx, c.config.Currency)
	if err != nil {
		c.logger.Error("Scheduled catalog import failed", zap.Error(err))
		return
	}
	c.logger.Info("Scheduled catalog import finished",
		zap.String("run_id", result.RunID),
		zap.String("status", result.Status.String()),
		zap.Int("succeeded", result.SuccessCount),
		zap.Int("failed", result.FailedCount),
	)
}

// RunCategories imports the category tree once
func (c *CatalogCronTrigger) RunCategories() {
	ctx, cancel := context.WithTimeout(c.baseContext(), c.config.RunTimeout)
	defer cancel()

	c.logger.Info("Triggering scheduled category import")
	report, err := c.categories.ImportTree(ctx, c.config.Vocabulary)
	if err != nil {
		c.logger.Error("Scheduled category import failed", zap.Error(err))
		return
	}
	c.logger.Info("Scheduled category import finished",
		zap.Int("created", report.Created),
		zap.Int("existing", report.Existing),
		zap.Int("missing", report.Missing),
	)
}

func (c *CatalogCronTrigger) baseContext() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}
