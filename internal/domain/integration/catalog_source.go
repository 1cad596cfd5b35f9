package integration

import "context"

// ---------------------------------------------------------------------------
// CatalogSource port
// ---------------------------------------------------------------------------

// ProductSource reads product records.
// Absent products are reported as ErrSourceNotFound.
type ProductSource interface {
	// GetProduct fetches one product by SKU
	GetProduct(ctx context.Context, sku string) (*SourceProduct, error)

	// GetProducts lists products matching the query
	GetProducts(ctx context.Context, query ProductQuery) ([]SourceProduct, error)

	// GetProductsCount returns the total number of remote products
	GetProductsCount(ctx context.Context) (int, error)

	// GetFirstProductID returns the lowest remote product entity id
	GetFirstProductID(ctx context.Context) (int, error)
}

// CategorySource reads category records
type CategorySource interface {
	// GetCategory fetches one category by id
	GetCategory(ctx context.Context, id int) (*SourceCategory, error)

	// GetCategoriesHierarchy fetches the whole tree from the root category
	GetCategoriesHierarchy(ctx context.Context) (*SourceCategory, error)

	// GetCategoryAttribute fetches a category attribute definition
	GetCategoryAttribute(ctx context.Context, code string) (*SourceAttribute, error)
}

// AttributeSource reads product attribute metadata
type AttributeSource interface {
	// GetProductAttribute fetches an attribute definition with its option table.
	// code may be an attribute code or a numeric attribute id.
	GetProductAttribute(ctx context.Context, code string) (*SourceAttribute, error)

	// GetProductAttributeSets lists attribute sets matching the criteria
	GetProductAttributeSets(ctx context.Context, criteria SearchCriteria) ([]AttributeSet, error)

	// GetProductAttributeSetAttributes lists the attributes assigned to a set
	GetProductAttributeSetAttributes(ctx context.Context, setID int) ([]SourceAttribute, error)
}

// StoreSource reads store-level settings
type StoreSource interface {
	// GetCurrencyCode returns the base currency of the remote store
	GetCurrencyCode(ctx context.Context) (string, error)
}

// CatalogSource is the full remote catalog capability
type CatalogSource interface {
	ProductSource
	CategorySource
	AttributeSource
	StoreSource
}

// MediaObject is a downloaded media file
type MediaObject struct {
	Body        []byte
	ContentType string
}

// MediaFetcher downloads remote media by absolute URL
type MediaFetcher interface {
	FetchMedia(ctx context.Context, url string) (*MediaObject, error)
}
