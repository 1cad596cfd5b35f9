package scheduler

import (
	"context"
	"fmt"

	"github.com/erp/catalogsync/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ProductSynchronizer synchronizes one SKU and returns the product id
type ProductSynchronizer interface {
	SynchronizeProduct(ctx context.Context, sku, currency string) (uint, error)
}

// SyncExecutor runs jobs through the product synchronizer
type SyncExecutor struct {
	synchronizer ProductSynchronizer
	logger       *zap.Logger
}

var _ JobExecutor = (*SyncExecutor)(nil)

// NewSyncExecutor creates a new SyncExecutor
func NewSyncExecutor(synchronizer ProductSynchronizer, log *zap.Logger) *SyncExecutor {
	return &SyncExecutor{
		synchronizer: synchronizer,
		logger:       log.Named("executor"),
	}
}

// Execute implements JobExecutor. The job id is the run id of a queued job.
func (e *SyncExecutor) Execute(ctx context.Context, job *Job) (uint, error) {
	ctx, log := logger.WithRunID(ctx, e.logger, job.ID.String())
	ctx, log = logger.WithSKU(ctx, log, job.SKU)

	id, err := e.synchronizer.SynchronizeProduct(ctx, job.SKU, job.Currency)
	if err != nil {
		return 0, err
	}
	log.Info(fmt.Sprintf("Product with ID %d created", id), zap.Int("attempt", job.RetryCount+1))
	return id, nil
}
