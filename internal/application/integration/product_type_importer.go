package integration

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"go.uber.org/zap"
)

// coreProductCodes are remote attributes stored on the product and
// variation records themselves rather than in configurable fields
var coreProductCodes = map[string]bool{
	"sku":                       true,
	"name":                      true,
	"price":                     true,
	"status":                    true,
	"quantity_and_stock_status": true,
}

// ProductTypeImporter creates one local product type per remote attribute
// set and provisions a product field for each attribute of the set
type ProductTypeImporter struct {
	source       integration.AttributeSource
	productTypes catalog.ProductTypeRepository
	attributes   *AttributeMapper
	schema       *SchemaProvisioner
	logger       *zap.Logger
}

// NewProductTypeImporter creates a new ProductTypeImporter
func NewProductTypeImporter(
	source integration.AttributeSource,
	productTypes catalog.ProductTypeRepository,
	attributes *AttributeMapper,
	schema *SchemaProvisioner,
	logger *zap.Logger,
) *ProductTypeImporter {
	return &ProductTypeImporter{
		source:       source,
		productTypes: productTypes,
		attributes:   attributes,
		schema:       schema,
		logger:       logger.Named("product_types"),
	}
}

// ImportProductTypes returns the number of product types created
func (i *ProductTypeImporter) ImportProductTypes(ctx context.Context) (int, error) {
	sets, err := i.source.GetProductAttributeSets(ctx, integration.AllAttributeSets())
	if err != nil {
		return 0, fmt.Errorf("fetch attribute sets: %w", err)
	}

	created := 0
	for _, set := range sets {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		ok, err := i.importSet(ctx, set)
		if err != nil {
			i.logger.Error("Failed to import attribute set",
				zap.Int("attribute_set_id", set.AttributeSetID),
				zap.String("name", set.AttributeSetName),
				zap.Error(err),
			)
			continue
		}
		if ok {
			created++
		}
	}
	i.logger.Info("Product types imported", zap.Int("sets", len(sets)), zap.Int("created", created))
	return created, nil
}

func (i *ProductTypeImporter) importSet(ctx context.Context, set integration.AttributeSet) (bool, error) {
	id := strconv.Itoa(set.AttributeSetID)
	variationTypeID := integration.AttributeSetKey(set.AttributeSetName)

	created := false
	if _, err := i.productTypes.FindByID(ctx, id); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return false, fmt.Errorf("%w: load product type: %v", integration.ErrPersistence, err)
		}
		if _, err := i.attributes.EnsureVariationType(ctx, variationTypeID); err != nil {
			return false, err
		}
		productType, err := catalog.NewProductType(id, set.AttributeSetName, variationTypeID)
		if err != nil {
			return false, err
		}
		if err := i.productTypes.Save(ctx, productType); err != nil {
			return false, fmt.Errorf("%w: save product type: %v", integration.ErrPersistence, err)
		}
		created = true
	}

	attrs, err := i.source.GetProductAttributeSetAttributes(ctx, set.AttributeSetID)
	if err != nil {
		i.logger.Warn("Attribute set attributes unavailable", zap.Int("attribute_set_id", set.AttributeSetID), zap.Error(err))
		return created, nil
	}
	for idx := range attrs {
		attr := &attrs[idx]
		if attr.AttributeCode == "" || coreProductCodes[attr.AttributeCode] ||
			catalog.IsBaseField(catalog.KindProduct, attr.AttributeCode) {
			continue
		}
		i.schema.EnsureField(ctx, catalog.FieldSpec{
			EntityKind: catalog.KindProduct,
			Bundle:     id,
			FieldName:  attr.AttributeCode,
			FieldKind:  productFieldKind(attr),
		})
	}
	i.schema.EnsureField(ctx, catalog.FieldSpec{
		EntityKind: catalog.KindProduct,
		Bundle:     id,
		FieldName:  catalog.FieldMediaGallery,
		FieldKind:  catalog.FieldKindImage,
	})
	i.schema.EnsureField(ctx, catalog.FieldSpec{
		EntityKind: catalog.KindProduct,
		Bundle:     id,
		FieldName:  catalog.FieldVideoEmbed,
		FieldKind:  catalog.FieldKindVideoEmbed,
	})
	return created, nil
}
