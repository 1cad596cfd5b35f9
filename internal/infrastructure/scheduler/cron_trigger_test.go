package scheduler

import (
	"context"
	"errors"
	"testing"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockCatalogImporter is a mock implementation of CatalogImporter
type MockCatalogImporter struct {
	mock.Mock
}

func (m *MockCatalogImporter) ImportAll(ctx context.Context, currency string) (*integration.BatchResult, error) {
	args := m.Called(ctx, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.BatchResult), args.Error(1)
}

// MockCategoryImporter is a mock implementation of CategoryImporter
type MockCategoryImporter struct {
	mock.Mock
}

func (m *MockCategoryImporter) ImportTree(ctx context.Context, vocabularyID string) (*integrationapp.TaxonomyReport, error) {
	args := m.Called(ctx, vocabularyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.TaxonomyReport), args.Error(1)
}

func TestCatalogCronTrigger_StartStop(t *testing.T) {
	trigger := NewCatalogCronTrigger(DefaultCronTriggerConfig(), new(MockCatalogImporter), new(MockCategoryImporter), zaptest.NewLogger(t))

	require.NoError(t, trigger.Start(context.Background()))
	assert.Len(t, trigger.cron.Entries(), 2)
	require.NoError(t, trigger.Start(context.Background()))
	assert.Len(t, trigger.cron.Entries(), 2)
	require.NoError(t, trigger.Stop(context.Background()))
	require.NoError(t, trigger.Stop(context.Background()))
}

func TestCatalogCronTrigger_InvalidSpec(t *testing.T) {
	cfg := DefaultCronTriggerConfig()
	cfg.CatalogSpec = "every night"

	trigger := NewCatalogCronTrigger(cfg, new(MockCatalogImporter), nil, zaptest.NewLogger(t))
	assert.ErrorIs(t, trigger.Start(context.Background()), ErrInvalidConfig)
}

func TestCatalogCronTrigger_EmptySpecDisablesImport(t *testing.T) {
	cfg := DefaultCronTriggerConfig()
	cfg.CategoriesSpec = ""

	trigger := NewCatalogCronTrigger(cfg, new(MockCatalogImporter), new(MockCategoryImporter), zaptest.NewLogger(t))
	require.NoError(t, trigger.Start(context.Background()))
	defer func() { _ = trigger.Stop(context.Background()) }()
	assert.Len(t, trigger.cron.Entries(), 1)
}

func TestCatalogCronTrigger_RunCatalog(t *testing.T) {
	cfg := DefaultCronTriggerConfig()
	cfg.Currency = "EUR"

	result := integration.NewBatchResult("run-1", 1)
	result.Record("MH01", 1, nil)
	result.Finish()

	catalog := new(MockCatalogImporter)
	catalog.On("ImportAll", mock.Anything, "EUR").Return(result, nil).Once()
	catalog.On("ImportAll", mock.Anything, "EUR").Return(nil, errors.New("listing failed")).Once()

	trigger := NewCatalogCronTrigger(cfg, catalog, nil, zaptest.NewLogger(t))
	trigger.RunCatalog()
	trigger.RunCatalog()
	catalog.AssertNumberOfCalls(t, "ImportAll", 2)
}

func TestCatalogCronTrigger_RunCategories(t *testing.T) {
	categories := new(MockCategoryImporter)
	categories.On("ImportTree", mock.Anything, "magento_categories").
		Return(&integrationapp.TaxonomyReport{Created: 3}, nil)

	trigger := NewCatalogCronTrigger(DefaultCronTriggerConfig(), nil, categories, zaptest.NewLogger(t))
	trigger.RunCategories()
	categories.AssertExpectations(t)
}
