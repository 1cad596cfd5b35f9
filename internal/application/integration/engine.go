package integration

import (
	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"go.uber.org/zap"
)

// EngineConfig is everything the engine needs beyond its ports
type EngineConfig struct {
	// MediaBaseURL is the catalog site root media paths are resolved against
	MediaBaseURL     string
	OverwriteAssets  bool
	MaxCategoryDepth int
	DefaultCurrency  string
	Sync             SyncConfig
	Batch            BatchConfig
}

// Engine wires the synchronization components over one catalog source and
// one set of repositories
type Engine struct {
	Schema       *SchemaProvisioner
	Attributes   *AttributeMapper
	Assets       *AssetResolver
	Taxonomy     *TaxonomyImporter
	AddOns       *AddOnTypeMapper
	Stores       *StoreProvisioner
	ProductTypes *ProductTypeImporter
	Currency     *CurrencyResolver
	Synchronizer *ProductSynchronizer
	Batch        *BatchImportService
}

// NewEngine builds every component. Optional collaborators are attached
// with the WithX methods of the synchronizer.
func NewEngine(
	source integration.CatalogSource,
	media integration.MediaFetcher,
	assets AssetStore,
	repos catalog.Repositories,
	stock catalog.StockService,
	cfg EngineConfig,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("engine")

	schema := NewSchemaProvisioner(repos.Fields, logger)
	attributes := NewAttributeMapper(source, repos.Attributes, repos.VariationTypes, schema, logger)
	components := Components{
		Schema:     schema,
		Attributes: attributes,
		Assets:     NewAssetResolver(media, assets, repos.Files, cfg.MediaBaseURL, cfg.OverwriteAssets, logger),
		Taxonomy:   NewTaxonomyImporter(source, repos.Vocabularies, repos.Terms, schema, cfg.MaxCategoryDepth, logger),
		AddOns:     NewAddOnTypeMapper(repos.AddOnTypes, schema, logger),
		Stores:     NewStoreProvisioner(repos.Stores, logger),
	}
	synchronizer := NewProductSynchronizer(source, repos, components, stock, cfg.Sync, logger)
	currency := NewCurrencyResolver(source, cfg.DefaultCurrency, logger)

	return &Engine{
		Schema:       schema,
		Attributes:   attributes,
		Assets:       components.Assets,
		Taxonomy:     components.Taxonomy,
		AddOns:       components.AddOns,
		Stores:       components.Stores,
		ProductTypes: NewProductTypeImporter(source, repos.ProductTypes, attributes, schema, logger),
		Currency:     currency,
		Synchronizer: synchronizer,
		Batch:        NewBatchImportService(source, synchronizer, currency, cfg.Batch, logger),
	}
}

// WithSKULocker serializes passes over the same SKU
func (e *Engine) WithSKULocker(locker SKULocker) *Engine {
	e.Synchronizer.WithSKULocker(locker)
	return e
}

// WithSyncRecorder reports every pass to recorder
func (e *Engine) WithSyncRecorder(recorder SyncRecorder) *Engine {
	e.Synchronizer.WithSyncRecorder(recorder)
	return e
}

