package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSynchronizer is a mock implementation of productSynchronizer
type MockSynchronizer struct {
	mock.Mock
}

func (m *MockSynchronizer) SynchronizeProduct(ctx context.Context, sku, currency string) (uint, error) {
	args := m.Called(ctx, sku, currency)
	return args.Get(0).(uint), args.Error(1)
}

func newBatchService(t *testing.T, src *fakeCatalog, sync productSynchronizer, cfg BatchConfig) *BatchImportService {
	t.Helper()
	return NewBatchImportService(src, sync, NewCurrencyResolver(src, "USD", zap.NewNop()), cfg, zap.NewNop())
}

func TestSplitSKUs(t *testing.T) {
	tests := []struct {
		name string
		arr  string
		want []string
	}{
		{"single", "24-MB01", []string{"24-MB01"}},
		{"spaces and tabs", "  24-MB01 \t MH01  ", []string{"24-MB01", "MH01"}},
		{"duplicates", "MH01 MH01 24-MB01", []string{"MH01", "24-MB01"}},
		{"blank", "   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSKUs(tt.arr))
		})
	}
}

func TestBatchImportService_ImportSKUs(t *testing.T) {
	ctx := context.Background()
	src := newFakeCatalog()
	src.currency = "eur"

	sync := new(MockSynchronizer)
	sync.On("SynchronizeProduct", mock.Anything, "A", "EUR").Return(uint(1), nil)
	sync.On("SynchronizeProduct", mock.Anything, "B", "EUR").Return(uint(0), integration.ErrSourceNotFound)
	sync.On("SynchronizeProduct", mock.Anything, "C", "EUR").Return(uint(3), nil)

	result := newBatchService(t, src, sync, BatchConfig{Workers: 2}).ImportSKUs(ctx, []string{"A", "B", "C"}, "")

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, integration.SyncStatusPartial, result.Status)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.FailedItems, 1)
	assert.Equal(t, "B", result.FailedItems[0].SKU)
	assert.Equal(t, integration.ErrorClassNotFound, result.FailedItems[0].ErrorClass)
	assert.False(t, result.FinishedAt.Before(result.StartedAt))
	sync.AssertExpectations(t)
}

func TestBatchImportService_ImportSKUsStatuses(t *testing.T) {
	ctx := context.Background()
	src := newFakeCatalog()

	t.Run("all succeed", func(t *testing.T) {
		sync := new(MockSynchronizer)
		sync.On("SynchronizeProduct", mock.Anything, mock.Anything, "GBP").Return(uint(7), nil)

		result := newBatchService(t, src, sync, BatchConfig{}).ImportSKUs(ctx, []string{"A", "B"}, "gbp")
		assert.Equal(t, integration.SyncStatusSuccess, result.Status)
		assert.Len(t, result.Synced, 2)
	})

	t.Run("all fail", func(t *testing.T) {
		sync := new(MockSynchronizer)
		sync.On("SynchronizeProduct", mock.Anything, mock.Anything, "USD").
			Return(uint(0), fmt.Errorf("%w: product type 4", integration.ErrNoProductType))

		result := newBatchService(t, src, sync, BatchConfig{}).ImportSKUs(ctx, []string{"A", "B"}, "")
		assert.Equal(t, integration.SyncStatusFailed, result.Status)
		for _, item := range result.FailedItems {
			assert.Equal(t, integration.ErrorClassPrecondition, item.ErrorClass)
		}
	})
}

func TestBatchImportService_RetriesTransportErrors(t *testing.T) {
	ctx := context.Background()
	src := newFakeCatalog()

	sync := new(MockSynchronizer)
	sync.On("SynchronizeProduct", mock.Anything, "A", "USD").Return(uint(0), integration.ErrSourceUnavailable).Twice()
	sync.On("SynchronizeProduct", mock.Anything, "A", "USD").Return(uint(4), nil).Once()

	result := newBatchService(t, src, sync, BatchConfig{RetryAttempts: 2}).ImportSKUs(ctx, []string{"A"}, "")
	assert.Equal(t, integration.SyncStatusSuccess, result.Status)
	sync.AssertNumberOfCalls(t, "SynchronizeProduct", 3)
}

func TestBatchImportService_DoesNotRetryOtherErrors(t *testing.T) {
	ctx := context.Background()
	src := newFakeCatalog()

	sync := new(MockSynchronizer)
	sync.On("SynchronizeProduct", mock.Anything, "A", "USD").Return(uint(0), integration.ErrPersistence)

	result := newBatchService(t, src, sync, BatchConfig{RetryAttempts: 3}).ImportSKUs(ctx, []string{"A"}, "")
	assert.Equal(t, integration.SyncStatusFailed, result.Status)
	sync.AssertNumberOfCalls(t, "SynchronizeProduct", 1)
}

func TestBatchImportService_RetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := newFakeCatalog()

	sync := new(MockSynchronizer)
	sync.On("SynchronizeProduct", mock.Anything, "A", "USD").
		Run(func(mock.Arguments) { cancel() }).
		Return(uint(0), integration.ErrSourceUnavailable)

	result := newBatchService(t, src, sync, BatchConfig{RetryAttempts: 5, RetryDelay: time.Hour}).ImportSKUs(ctx, []string{"A"}, "")
	require.Len(t, result.FailedItems, 1)
	assert.Equal(t, integration.ErrorClassCancelled, result.FailedItems[0].ErrorClass)
	sync.AssertNumberOfCalls(t, "SynchronizeProduct", 1)
}

func TestBatchImportService_ListSKUs(t *testing.T) {
	ctx := context.Background()
	src := newFakeCatalog()
	for i := 1; i <= 5; i++ {
		src.addProduct(integration.SourceProduct{ID: i, SKU: fmt.Sprintf("SKU-%d", i)})
	}

	svc := newBatchService(t, src, new(MockSynchronizer), BatchConfig{PageSize: 2})
	skus, err := svc.ListSKUs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"SKU-1", "SKU-2", "SKU-3", "SKU-4", "SKU-5"}, skus)
}

func TestBatchImportService_ImportAll(t *testing.T) {
	ctx := context.Background()
	src := newFakeCatalog()
	src.addProduct(integration.SourceProduct{ID: 1, SKU: "A"})
	src.addProduct(integration.SourceProduct{ID: 2, SKU: "B"})

	sync := new(MockSynchronizer)
	sync.On("SynchronizeProduct", mock.Anything, mock.Anything, "USD").Return(uint(1), nil)

	result, err := newBatchService(t, src, sync, BatchConfig{PageSize: 1}).ImportAll(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)

	t.Run("empty catalog", func(t *testing.T) {
		result, err := newBatchService(t, newFakeCatalog(), new(MockSynchronizer), BatchConfig{}).ImportAll(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, integration.SyncStatusSuccess, result.Status)
		assert.Zero(t, result.TotalCount)
	})
}

func TestBatchImportService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, func(cfg *EngineConfig) { cfg.Batch.RetryAttempts = 1 })
	env.seedProductType(t, 4, "Bag")
	env.source.addProduct(integration.SourceProduct{
		ID:             1,
		SKU:            "24-MB01",
		Name:           "Joust Duffle Bag",
		TypeID:         integration.TypeSimple,
		AttributeSetID: 4,
		Price:          decimal.NewFromInt(34),
		ProductLinks:   relatedTo("24-MB01", "24-MB04"),
	})
	env.source.unavailableSKUs["24-MB01"] = 1

	result := env.engine.Batch.ImportSKUs(ctx, []string{"24-MB01", "missing"}, "")
	assert.Equal(t, integration.SyncStatusPartial, result.Status)
	require.Len(t, result.Synced, 1)
	assert.Equal(t, "24-MB01", result.Synced[0].SKU)
	require.Len(t, result.FailedItems, 1)
	assert.Equal(t, integration.ErrorClassNotFound, result.FailedItems[0].ErrorClass)
}
