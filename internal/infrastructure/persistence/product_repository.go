package persistence

import (
	"context"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := &models.ProductModel{}
	model.FromDomain(product)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return nil
}

// Count returns the number of products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GormProductTypeRepository implements catalog.ProductTypeRepository using GORM
type GormProductTypeRepository struct {
	db *gorm.DB
}

// NewGormProductTypeRepository creates a new GormProductTypeRepository
func NewGormProductTypeRepository(db *gorm.DB) *GormProductTypeRepository {
	return &GormProductTypeRepository{db: db}
}

// FindByID finds a product type by its ID
func (r *GormProductTypeRepository) FindByID(ctx context.Context, id string) (*catalog.ProductType, error) {
	var model models.ProductTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every product type ordered by ID
func (r *GormProductTypeRepository) FindAll(ctx context.Context) ([]catalog.ProductType, error) {
	var rows []models.ProductTypeModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	types := make([]catalog.ProductType, len(rows))
	for i := range rows {
		types[i] = *rows[i].ToDomain()
	}
	return types, nil
}

// Save creates or updates a product type
func (r *GormProductTypeRepository) Save(ctx context.Context, productType *catalog.ProductType) error {
	model := &models.ProductTypeModel{}
	model.FromDomain(productType)
	return upsertByKey(ctx, r.db, model)
}

// GormVariationRepository implements catalog.VariationRepository using GORM
type GormVariationRepository struct {
	db *gorm.DB
}

// NewGormVariationRepository creates a new GormVariationRepository
func NewGormVariationRepository(db *gorm.DB) *GormVariationRepository {
	return &GormVariationRepository{db: db}
}

// FindByID finds a variation by its ID
func (r *GormVariationRepository) FindByID(ctx context.Context, id uint) (*catalog.Variation, error) {
	var model models.VariationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySKU finds a variation by its SKU
func (r *GormVariationRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Variation, error) {
	var model models.VariationModel
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds variations by IDs; missing IDs are skipped
func (r *GormVariationRepository) FindByIDs(ctx context.Context, ids []uint) ([]*catalog.Variation, error) {
	if len(ids) == 0 {
		return []*catalog.Variation{}, nil
	}
	var rows []models.VariationModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	variations := make([]*catalog.Variation, len(rows))
	for i := range rows {
		variations[i] = rows[i].ToDomain()
	}
	return variations, nil
}

// Save creates or updates a variation
func (r *GormVariationRepository) Save(ctx context.Context, variation *catalog.Variation) error {
	model := &models.VariationModel{}
	model.FromDomain(variation)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	variation.ID = model.ID
	variation.CreatedAt = model.CreatedAt
	variation.UpdatedAt = model.UpdatedAt
	return nil
}

// Count returns the number of variations
func (r *GormVariationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.VariationModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GormVariationTypeRepository implements catalog.VariationTypeRepository using GORM
type GormVariationTypeRepository struct {
	db *gorm.DB
}

// NewGormVariationTypeRepository creates a new GormVariationTypeRepository
func NewGormVariationTypeRepository(db *gorm.DB) *GormVariationTypeRepository {
	return &GormVariationTypeRepository{db: db}
}

// FindByID finds a variation type by its ID
func (r *GormVariationTypeRepository) FindByID(ctx context.Context, id string) (*catalog.VariationType, error) {
	var model models.VariationTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a variation type
func (r *GormVariationTypeRepository) Save(ctx context.Context, variationType *catalog.VariationType) error {
	model := &models.VariationTypeModel{}
	model.FromDomain(variationType)
	return upsertByKey(ctx, r.db, model)
}
