package handler

import (
	"context"
	"strings"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/interfaces/http/dto"
	"github.com/erp/catalogsync/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProductSyncer synchronizes one SKU
type ProductSyncer interface {
	SynchronizeProduct(ctx context.Context, sku, currency string) (uint, error)
}

// BatchImporter synchronizes many SKUs on the worker pool
type BatchImporter interface {
	ImportSKUs(ctx context.Context, skus []string, currency string) *integration.BatchResult
}

// CategoryImporter imports the remote category tree
type CategoryImporter interface {
	ImportTree(ctx context.Context, vocabularyID string) (*integrationapp.TaxonomyReport, error)
}

// ProductTypeImporter creates local product types from attribute sets
type ProductTypeImporter interface {
	ImportProductTypes(ctx context.Context) (int, error)
}

// CurrencyResolver picks the batch currency
type CurrencyResolver interface {
	Resolve(ctx context.Context, override string) string
}

// JobPublisher hands SKUs to the queue workers
type JobPublisher interface {
	Publish(ctx context.Context, currency string, skus ...string) error
}

// SyncHandler triggers synchronization over HTTP
type SyncHandler struct {
	BaseHandler
	products     ProductSyncer
	batch        BatchImporter
	categories   CategoryImporter
	productTypes ProductTypeImporter
	currency     CurrencyResolver
	publisher    JobPublisher
	vocabulary   string
	topic        string
}

// SyncHandlerConfig carries the handler's collaborators. Publisher may be nil,
// in which case async batch requests are refused.
type SyncHandlerConfig struct {
	Products     ProductSyncer
	Batch        BatchImporter
	Categories   CategoryImporter
	ProductTypes ProductTypeImporter
	Currency     CurrencyResolver
	Publisher    JobPublisher
	Vocabulary   string
	Topic        string
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(cfg SyncHandlerConfig) *SyncHandler {
	return &SyncHandler{
		products:     cfg.Products,
		batch:        cfg.Batch,
		categories:   cfg.Categories,
		productTypes: cfg.ProductTypes,
		currency:     cfg.Currency,
		publisher:    cfg.Publisher,
		vocabulary:   cfg.Vocabulary,
		topic:        cfg.Topic,
	}
}

// SyncProduct runs one synchronization pass and returns the local product id.
//
//	POST /api/v1/sync/products/:sku  {"currency": "EUR"}
func (h *SyncHandler) SyncProduct(c *gin.Context) {
	sku := strings.TrimSpace(c.Param("sku"))
	if sku == "" {
		h.BadRequest(c, "sku is required")
		return
	}

	var req dto.SyncProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	id, err := h.products.SynchronizeProduct(ctx, sku, h.currency.Resolve(ctx, req.Currency))
	if err != nil {
		h.HandleSyncError(c, err)
		return
	}
	h.Success(c, dto.SyncProductResponse{SKU: sku, ProductID: id})
}

// SyncBatch synchronizes a list of SKUs, or enqueues them when async is set.
// Per-SKU failures are reported inside the batch result, not as an HTTP error.
//
//	POST /api/v1/sync/products  {"skus": ["MH01", "MH02"], "async": false}
func (h *SyncHandler) SyncBatch(c *gin.Context) {
	var req dto.BatchSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	skus := req.AllSKUs()
	if len(skus) == 0 {
		h.BadRequest(c, "at least one sku is required")
		return
	}

	ctx := c.Request.Context()
	if req.Async {
		if h.publisher == nil {
			h.ErrorWithCode(c, dto.ErrCodeQueueUnavailable, "job queue is not configured")
			return
		}
		if err := h.publisher.Publish(ctx, strings.ToUpper(req.Currency), skus...); err != nil {
			_ = c.Error(err)
			h.ErrorWithCode(c, dto.ErrCodeQueueUnavailable, "failed to enqueue sync jobs")
			return
		}
		h.Accepted(c, dto.EnqueueResponse{Queued: len(skus), Topic: h.topic})
		return
	}

	h.Success(c, h.batch.ImportSKUs(ctx, skus, req.Currency))
}

// SyncCategories imports the category tree into a vocabulary.
//
//	POST /api/v1/sync/categories  {"vocabulary": "magento_categories"}
func (h *SyncHandler) SyncCategories(c *gin.Context) {
	var req dto.CategorySyncRequest
	if !h.BindJSON(c, &req) {
		return
	}
	vocabulary := req.Vocabulary
	if vocabulary == "" {
		vocabulary = h.vocabulary
	}

	report, err := h.categories.ImportTree(c.Request.Context(), vocabulary)
	if err != nil {
		h.HandleSyncError(c, err)
		return
	}
	h.Success(c, report)
}

// SyncProductTypes creates product types from the remote attribute sets.
//
//	POST /api/v1/sync/product-types
func (h *SyncHandler) SyncProductTypes(c *gin.Context) {
	created, err := h.productTypes.ImportProductTypes(c.Request.Context())
	if err != nil {
		h.HandleSyncError(c, err)
		return
	}
	h.Success(c, dto.ProductTypeSyncResponse{Created: created})
}
