package integration

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	inventoryapp "github.com/erp/catalogsync/internal/application/inventory"
	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/infrastructure/config"
	"github.com/erp/catalogsync/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const testMediaBase = "https://shop.test"

// fakeCatalog is an in-memory remote catalog
type fakeCatalog struct {
	mu sync.Mutex

	products        map[string]*integration.SourceProduct
	attributes      map[string]*integration.SourceAttribute
	sets            []integration.AttributeSet
	setAttributes   map[int][]integration.SourceAttribute
	categories      map[int]*integration.SourceCategory
	root            *integration.SourceCategory
	categoryAttrs   map[string]*integration.SourceAttribute
	currency        string
	media           map[string][]byte
	unavailableSKUs map[string]int

	attributeCalls map[string]int
	mediaCalls     int
}

var (
	_ integration.CatalogSource = (*fakeCatalog)(nil)
	_ integration.MediaFetcher  = (*fakeCatalog)(nil)
)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products:        make(map[string]*integration.SourceProduct),
		attributes:      make(map[string]*integration.SourceAttribute),
		setAttributes:   make(map[int][]integration.SourceAttribute),
		categories:      make(map[int]*integration.SourceCategory),
		categoryAttrs:   make(map[string]*integration.SourceAttribute),
		media:           make(map[string][]byte),
		unavailableSKUs: make(map[string]int),
		attributeCalls:  make(map[string]int),
	}
}

func (f *fakeCatalog) addProduct(p integration.SourceProduct) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.SKU] = &p
}

// addAttribute registers the definition under its code and numeric id
func (f *fakeCatalog) addAttribute(a integration.SourceAttribute) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attributes[a.AttributeCode] = &a
	f.attributes[strconv.Itoa(a.AttributeID)] = &a
}

func (f *fakeCatalog) addMedia(path string, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media[testMediaBase+"/media/catalog/product"+path] = []byte(body)
}

func (f *fakeCatalog) GetProduct(_ context.Context, sku string) (*integration.SourceProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := f.unavailableSKUs[sku]; n > 0 {
		f.unavailableSKUs[sku] = n - 1
		return nil, integration.ErrSourceUnavailable
	}
	p, ok := f.products[sku]
	if !ok {
		return nil, integration.ErrSourceNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) sortedSKUs() []string {
	skus := make([]string, 0, len(f.products))
	for sku := range f.products {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

func (f *fakeCatalog) GetProducts(_ context.Context, query integration.ProductQuery) ([]integration.SourceProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, filter := range query.Filters {
		if filter.Field == "entity_id" && filter.Condition == integration.ConditionEq {
			id, _ := strconv.Atoi(filter.Value)
			for _, p := range f.products {
				if p.ID == id {
					return []integration.SourceProduct{*p}, nil
				}
			}
			return nil, nil
		}
	}

	skus := f.sortedSKUs()
	size := query.PageSize
	if size <= 0 {
		size = len(skus)
	}
	page := query.CurrentPage
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(skus) {
		return nil, nil
	}
	end := min(start+size, len(skus))
	out := make([]integration.SourceProduct, 0, end-start)
	for _, sku := range skus[start:end] {
		out = append(out, *f.products[sku])
	}
	return out, nil
}

func (f *fakeCatalog) GetProductsCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.products), nil
}

func (f *fakeCatalog) GetFirstProductID(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	first := 0
	for _, p := range f.products {
		if first == 0 || p.ID < first {
			first = p.ID
		}
	}
	return first, nil
}

func (f *fakeCatalog) GetCategory(_ context.Context, id int) (*integration.SourceCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, integration.ErrSourceNotFound
	}
	return c, nil
}

func (f *fakeCatalog) GetCategoriesHierarchy(context.Context) (*integration.SourceCategory, error) {
	if f.root == nil {
		return nil, integration.ErrSourceNotFound
	}
	return f.root, nil
}

func (f *fakeCatalog) GetCategoryAttribute(_ context.Context, code string) (*integration.SourceAttribute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.categoryAttrs[code]
	if !ok {
		return nil, integration.ErrSourceNotFound
	}
	return a, nil
}

func (f *fakeCatalog) GetProductAttribute(_ context.Context, code string) (*integration.SourceAttribute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attributeCalls[code]++
	a, ok := f.attributes[code]
	if !ok {
		return nil, integration.ErrSourceNotFound
	}
	return a, nil
}

func (f *fakeCatalog) GetProductAttributeSets(context.Context, integration.SearchCriteria) ([]integration.AttributeSet, error) {
	return f.sets, nil
}

func (f *fakeCatalog) GetProductAttributeSetAttributes(_ context.Context, setID int) ([]integration.SourceAttribute, error) {
	attrs, ok := f.setAttributes[setID]
	if !ok {
		return nil, integration.ErrSourceNotFound
	}
	return attrs, nil
}

func (f *fakeCatalog) GetCurrencyCode(context.Context) (string, error) {
	if f.currency == "" {
		return "", integration.ErrSourceNotFound
	}
	return f.currency, nil
}

func (f *fakeCatalog) FetchMedia(_ context.Context, url string) (*integration.MediaObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mediaCalls++
	body, ok := f.media[url]
	if !ok {
		return nil, integration.ErrSourceNotFound
	}
	return &integration.MediaObject{Body: body, ContentType: "image/jpeg"}, nil
}

// memoryAssets is an AssetStore over a map
type memoryAssets struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newMemoryAssets() *memoryAssets {
	return &memoryAssets{objects: make(map[string][]byte)}
}

func (m *memoryAssets) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return "", errors.New("disk full")
	}
	m.objects[key] = data
	return m.URI(key), nil
}

func (m *memoryAssets) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memoryAssets) URI(key string) string {
	return "public://" + strings.TrimLeft(key, "/")
}

// testEnv is a complete engine over SQLite and the fakes
type testEnv struct {
	source *fakeCatalog
	assets *memoryAssets
	repos  catalog.Repositories
	engine *Engine
}

func newTestEnv(t *testing.T, mutate ...func(*EngineConfig)) *testEnv {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	cfg := EngineConfig{
		MediaBaseURL:    testMediaBase,
		OverwriteAssets: true,
		DefaultCurrency: "USD",
		Sync:            SyncConfig{LocationID: 1},
		Batch:           BatchConfig{Workers: 1},
	}
	for _, m := range mutate {
		m(&cfg)
	}

	logger := zaptest.NewLogger(t)
	repos := persistence.NewRepositories(db.DB)
	source := newFakeCatalog()
	assets := newMemoryAssets()
	stock := inventoryapp.NewStockReceiptService(repos.StockTransactions, logger)

	return &testEnv{
		source: source,
		assets: assets,
		repos:  repos,
		engine: NewEngine(source, source, assets, repos, stock, cfg, logger),
	}
}

// seedProductType creates the local product type for a remote attribute set
func (e *testEnv) seedProductType(t *testing.T, setID int, name string) {
	t.Helper()
	pt, err := catalog.NewProductType(strconv.Itoa(setID), name, integration.AttributeSetKey(name))
	require.NoError(t, err)
	require.NoError(t, e.repos.ProductTypes.Save(context.Background(), pt))
}

// entityCounts snapshots the row counts idempotence is checked against
type entityCounts struct {
	products, variations, values, terms int64
}

func (e *testEnv) counts(t *testing.T) entityCounts {
	t.Helper()
	ctx := context.Background()
	var c entityCounts
	var err error
	c.products, err = e.repos.Products.Count(ctx)
	require.NoError(t, err)
	c.variations, err = e.repos.Variations.Count(ctx)
	require.NoError(t, err)
	c.values, err = e.repos.Attributes.CountValues(ctx)
	require.NoError(t, err)
	c.terms, err = e.repos.Terms.Count(ctx)
	require.NoError(t, err)
	return c
}

func stockItem(qty int64) integration.ExtensionAttributes {
	return integration.ExtensionAttributes{
		StockItem: &integration.StockItem{Qty: decimal.NewFromInt(qty), IsInStock: qty > 0},
	}
}

func customAttr(code, value string) integration.CustomAttribute {
	return integration.CustomAttribute{AttributeCode: code, Value: integration.StringValue(value)}
}

// relatedTo links sku to one related product, which gives a product
// without configurable links its own variation
func relatedTo(sku, linked string) []integration.ProductLink {
	return []integration.ProductLink{{SKU: sku, LinkType: integration.LinkTypeRelated, LinkedProductSKU: linked}}
}
