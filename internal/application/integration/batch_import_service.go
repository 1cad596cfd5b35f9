package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchWorkers is the pool size when none is configured
const DefaultBatchWorkers = 4

// BatchConfig tunes a BatchImportService
type BatchConfig struct {
	// Workers bounds the number of SKUs synchronized concurrently
	Workers int
	// PageSize is the listing page size of a full catalog import
	PageSize int
	// RetryAttempts retries a SKU that failed with a transport error
	RetryAttempts int
	// RetryDelay is the pause before each retry
	RetryDelay time.Duration
}

// productSynchronizer is the part of ProductSynchronizer a batch drives
type productSynchronizer interface {
	SynchronizeProduct(ctx context.Context, sku, currency string) (uint, error)
}

// BatchImportService runs many SKUs through the synchronizer on a bounded
// worker pool. A failing SKU never stops the others.
type BatchImportService struct {
	source       integration.ProductSource
	synchronizer productSynchronizer
	currency     *CurrencyResolver
	config       BatchConfig
	logger       *zap.Logger
}

// NewBatchImportService creates a new BatchImportService
func NewBatchImportService(
	source integration.ProductSource,
	synchronizer productSynchronizer,
	currency *CurrencyResolver,
	cfg BatchConfig,
	logger *zap.Logger,
) *BatchImportService {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultBatchWorkers
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &BatchImportService{
		source:       source,
		synchronizer: synchronizer,
		currency:     currency,
		config:       cfg,
		logger:       logger.Named("batch"),
	}
}

// SplitSKUs splits a space separated SKU list, dropping blanks and duplicates
func SplitSKUs(arr string) []string {
	seen := make(map[string]bool)
	skus := make([]string, 0)
	for _, sku := range strings.Fields(arr) {
		if seen[sku] {
			continue
		}
		seen[sku] = true
		skus = append(skus, sku)
	}
	return skus
}

// ImportSKUs synchronizes every SKU and returns the per-SKU outcomes.
// The currency is resolved once for the whole batch.
func (s *BatchImportService) ImportSKUs(ctx context.Context, skus []string, currency string) *integration.BatchResult {
	runID := uuid.New().String()
	result := integration.NewBatchResult(runID, len(skus))
	ctx, span := telemetry.StartServiceSpan(ctx, "batch_import", "import_skus",
		telemetry.WithAttribute("run_id", runID),
		telemetry.WithAttribute("total", len(skus)),
	)
	defer span.End()

	code := s.currency.Resolve(ctx, currency)
	log := s.logger.With(zap.String("run_id", runID), zap.String("currency", code))
	log.Info("Starting batch import", zap.Int("total", len(skus)), zap.Int("workers", s.config.Workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for _, sku := range skus {
		g.Go(func() error {
			id, err := s.importOne(gctx, sku, code)
			result.Record(sku, id, err)
			return nil
		})
	}
	_ = g.Wait()
	result.Finish()
	telemetry.SetAttribute(span, "status", result.Status.String())
	telemetry.SetAttribute(span, "failed", result.FailedCount)

	log.Info("Batch import finished",
		zap.String("status", result.Status.String()),
		zap.Int("succeeded", result.SuccessCount),
		zap.Int("failed", result.FailedCount),
		zap.Duration("duration", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result
}

// importOne retries transport failures; every other outcome is final
func (s *BatchImportService) importOne(ctx context.Context, sku, currency string) (uint, error) {
	var lastErr error
	for attempt := 0; attempt <= s.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(s.config.RetryDelay):
			}
			s.logger.Debug("Retrying SKU", zap.String("sku", sku), zap.Int("attempt", attempt))
		}
		id, err := s.synchronizer.SynchronizeProduct(ctx, sku, currency)
		if integration.Classify(err) != integration.ErrorClassTransport {
			return id, err
		}
		lastErr = err
	}
	return 0, lastErr
}

// ImportAll pages through the whole remote catalog and synchronizes every
// SKU. A page that cannot be listed ends the listing; SKUs already listed
// are still imported.
func (s *BatchImportService) ImportAll(ctx context.Context, currency string) (*integration.BatchResult, error) {
	skus, err := s.ListSKUs(ctx)
	if err != nil && len(skus) == 0 {
		return nil, err
	}
	if err != nil {
		s.logger.Warn("Catalog listing incomplete", zap.Int("listed", len(skus)), zap.Error(err))
	}
	return s.ImportSKUs(ctx, skus, currency), nil
}

// ListSKUs returns every remote SKU using total_count and page numbers
func (s *BatchImportService) ListSKUs(ctx context.Context) ([]string, error) {
	total, err := s.source.GetProductsCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	pages := (total + s.config.PageSize - 1) / s.config.PageSize

	skus := make([]string, 0, total)
	for page := 1; page <= pages; page++ {
		products, err := s.source.GetProducts(ctx, integration.ProductQuery{
			PageSize:    s.config.PageSize,
			CurrentPage: page,
			Fields:      "items[sku]",
		})
		if err != nil {
			return skus, fmt.Errorf("list products page %d: %w", page, err)
		}
		if len(products) == 0 {
			break
		}
		for _, p := range products {
			if p.SKU != "" {
				skus = append(skus, p.SKU)
			}
		}
	}
	if len(skus) == 0 && total > 0 {
		return nil, errors.New("catalog listing returned no SKUs")
	}
	return skus, nil
}
