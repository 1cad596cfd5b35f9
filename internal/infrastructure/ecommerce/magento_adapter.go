package ecommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/erp/catalogsync/internal/domain/integration"
)

// maxMediaSize caps one downloaded media file (50MB)
const maxMediaSize = 50 * 1024 * 1024

// MagentoAdapter implements integration.CatalogSource and
// integration.MediaFetcher over the Magento REST API.
//
// Every failure is logged here. Callers only see ErrSourceNotFound,
// ErrSourceUnavailable or ErrSourceInvalidResponse.
type MagentoAdapter struct {
	config *MagentoConfig
	client *resty.Client
	media  *resty.Client
	logger *zap.Logger
}

var (
	_ integration.CatalogSource = (*MagentoAdapter)(nil)
	_ integration.MediaFetcher  = (*MagentoAdapter)(nil)
)

// NewMagentoAdapter creates a Magento adapter with the given configuration
func NewMagentoAdapter(cfg *MagentoConfig, logger *zap.Logger) (*MagentoAdapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("magento")

	retryOn := func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		SetDebug(cfg.Debug).
		SetLogger(logger.Sugar()).
		SetRetryCount(cfg.RetryCount).
		AddRetryCondition(retryOn)

	return &MagentoAdapter{
		config: cfg,
		client: client,
		media:  newMediaClient(cfg, maxMediaSize, logger),
		logger: logger,
	}, nil
}

// newMediaClient builds the unauthenticated download client. Bodies larger
// than limit are rejected while reading and never retried.
func newMediaClient(cfg *MagentoConfig, limit int, logger *zap.Logger) *resty.Client {
	return resty.New().
		SetTimeout(cfg.Timeout).
		SetLogger(logger.Sugar()).
		SetResponseBodyLimit(limit).
		SetRetryCount(cfg.RetryCount).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if errors.Is(err, resty.ErrResponseBodyTooLarge) {
				return false
			}
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
}

// get issues a GET against the REST root and decodes a 200 body into out
func (a *MagentoAdapter) get(ctx context.Context, path string, query url.Values, out any) error {
	req := a.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		a.logger.Error("Magento request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", integration.ErrSourceUnavailable, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusOK:
	case status == http.StatusNotFound:
		a.logger.Debug("Magento record not found", zap.String("path", path))
		return integration.ErrSourceNotFound
	default:
		a.logger.Warn("Magento returned non-OK status",
			zap.String("path", path),
			zap.Int("status", status),
			zap.ByteString("body", truncate(resp.Body(), 512)),
		)
		return fmt.Errorf("%w: status %d", integration.ErrSourceUnavailable, status)
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		a.logger.Error("Magento response decode failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", integration.ErrSourceInvalidResponse, err)
	}
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

type productList struct {
	Items      []integration.SourceProduct `json:"items"`
	TotalCount int                         `json:"total_count"`
}

// GetProduct fetches one product by SKU
func (a *MagentoAdapter) GetProduct(ctx context.Context, sku string) (*integration.SourceProduct, error) {
	var product integration.SourceProduct
	if err := a.get(ctx, "/products/"+url.PathEscape(sku), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts lists products matching the query. A query without filters
// matches every entity; a zero page size uses the configured page size.
func (a *MagentoAdapter) GetProducts(ctx context.Context, query integration.ProductQuery) ([]integration.SourceProduct, error) {
	filters := query.Filters
	if len(filters) == 0 {
		filters = []integration.SearchCriteria{integration.AllEntities()}
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = a.config.PageSize
	}
	q := searchCriteriaQuery(filters, query.Condition, query.Sort, pageSize, query.CurrentPage)
	if query.Fields != "" {
		q.Set("fields", query.Fields)
	}

	var list productList
	if err := a.get(ctx, "/products", q, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GetProductsCount returns total_count of an unfiltered one-item page
func (a *MagentoAdapter) GetProductsCount(ctx context.Context) (int, error) {
	var list productList
	if err := a.get(ctx, "/products", searchCriteriaQuery(nil, integration.LogicalNone, nil, 1, 0), &list); err != nil {
		return 0, err
	}
	return list.TotalCount, nil
}

// GetFirstProductID returns the lowest entity id, 0 for an empty catalog
func (a *MagentoAdapter) GetFirstProductID(ctx context.Context) (int, error) {
	q := searchCriteriaQuery(
		[]integration.SearchCriteria{integration.AllEntities()},
		integration.LogicalNone,
		[]integration.SortCriteria{integration.NewSortCriteria("entity_id", integration.SortAsc)},
		1, 0,
	)
	q.Set("fields", "items[id]")

	var list productList
	if err := a.get(ctx, "/products", q, &list); err != nil {
		return 0, err
	}
	if len(list.Items) == 0 {
		return 0, nil
	}
	return list.Items[0].ID, nil
}

// ---------------------------------------------------------------------------
// Attributes
// ---------------------------------------------------------------------------

// GetProductAttribute fetches an attribute definition by code or numeric id
func (a *MagentoAdapter) GetProductAttribute(ctx context.Context, code string) (*integration.SourceAttribute, error) {
	var attr integration.SourceAttribute
	if err := a.get(ctx, "/products/attributes/"+url.PathEscape(code), nil, &attr); err != nil {
		return nil, err
	}
	return &attr, nil
}

// GetProductAttributes lists product attribute definitions matching criteria
func (a *MagentoAdapter) GetProductAttributes(ctx context.Context, criteria integration.SearchCriteria) ([]integration.SourceAttribute, error) {
	var list struct {
		Items []integration.SourceAttribute `json:"items"`
	}
	q := searchCriteriaQuery([]integration.SearchCriteria{criteria}, integration.LogicalNone, nil, 0, 0)
	if err := a.get(ctx, "/products/attributes", q, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GetProductAttributeSets lists attribute sets matching criteria
func (a *MagentoAdapter) GetProductAttributeSets(ctx context.Context, criteria integration.SearchCriteria) ([]integration.AttributeSet, error) {
	var list struct {
		Items []integration.AttributeSet `json:"items"`
	}
	q := searchCriteriaQuery([]integration.SearchCriteria{criteria}, integration.LogicalNone, nil, 0, 0)
	if err := a.get(ctx, "/products/attribute-sets/sets/list", q, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GetProductAttributeSet fetches one attribute set
func (a *MagentoAdapter) GetProductAttributeSet(ctx context.Context, setID int) (*integration.AttributeSet, error) {
	var set integration.AttributeSet
	if err := a.get(ctx, "/products/attribute-sets/"+strconv.Itoa(setID), nil, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// GetProductAttributeSetAttributes lists the attributes assigned to a set
func (a *MagentoAdapter) GetProductAttributeSetAttributes(ctx context.Context, setID int) ([]integration.SourceAttribute, error) {
	var attrs []integration.SourceAttribute
	if err := a.get(ctx, "/products/attribute-sets/"+strconv.Itoa(setID)+"/attributes", nil, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

// GetCategory fetches one category by id
func (a *MagentoAdapter) GetCategory(ctx context.Context, id int) (*integration.SourceCategory, error) {
	var category integration.SourceCategory
	if err := a.get(ctx, "/categories/"+strconv.Itoa(id), nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoriesHierarchy fetches the category tree from the root category
func (a *MagentoAdapter) GetCategoriesHierarchy(ctx context.Context) (*integration.SourceCategory, error) {
	var root integration.SourceCategory
	if err := a.get(ctx, "/categories", nil, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// GetCategories lists categories flat; nil criteria matches every entity
func (a *MagentoAdapter) GetCategories(ctx context.Context, criteria []integration.SearchCriteria) ([]integration.SourceCategory, error) {
	if len(criteria) == 0 {
		criteria = []integration.SearchCriteria{integration.AllEntities()}
	}
	var list struct {
		Items []integration.SourceCategory `json:"items"`
	}
	q := searchCriteriaQuery(criteria, integration.LogicalNone, nil, 0, 0)
	if err := a.get(ctx, "/categories/list", q, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GetCategoryAttribute fetches a category attribute definition
func (a *MagentoAdapter) GetCategoryAttribute(ctx context.Context, code string) (*integration.SourceAttribute, error) {
	var attr integration.SourceAttribute
	if err := a.get(ctx, "/categories/attributes/"+url.PathEscape(code), nil, &attr); err != nil {
		return nil, err
	}
	return &attr, nil
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// GetCurrencyCode returns the store base currency
func (a *MagentoAdapter) GetCurrencyCode(ctx context.Context) (string, error) {
	var currency struct {
		BaseCurrencyCode string `json:"base_currency_code"`
	}
	if err := a.get(ctx, "/directory/currency", nil, &currency); err != nil {
		return "", err
	}
	if currency.BaseCurrencyCode == "" {
		return "", integration.ErrSourceNotFound
	}
	return currency.BaseCurrencyCode, nil
}

// ---------------------------------------------------------------------------
// Media
// ---------------------------------------------------------------------------

// FetchMedia downloads an absolute media URL without the API token
func (a *MagentoAdapter) FetchMedia(ctx context.Context, mediaURL string) (*integration.MediaObject, error) {
	resp, err := a.media.R().SetContext(ctx).Get(mediaURL)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		a.logger.Warn("Media exceeds size limit", zap.String("url", mediaURL))
		return nil, fmt.Errorf("%w: media larger than %d bytes", integration.ErrSourceInvalidResponse, maxMediaSize)
	}
	if err != nil {
		a.logger.Error("Media download failed", zap.String("url", mediaURL), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", integration.ErrSourceUnavailable, err)
	}
	switch status := resp.StatusCode(); {
	case status == http.StatusOK:
	case status == http.StatusNotFound:
		a.logger.Warn("Media not found", zap.String("url", mediaURL))
		return nil, integration.ErrSourceNotFound
	default:
		a.logger.Warn("Media download returned non-OK status", zap.String("url", mediaURL), zap.Int("status", status))
		return nil, fmt.Errorf("%w: status %d", integration.ErrSourceUnavailable, status)
	}

	body := resp.Body()
	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return &integration.MediaObject{Body: body, ContentType: contentType}, nil
}
