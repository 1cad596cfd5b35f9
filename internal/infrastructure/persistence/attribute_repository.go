package persistence

import (
	"context"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAttributeRepository implements catalog.AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// FindByID finds an attribute by its ID
func (r *GormAttributeRepository) FindByID(ctx context.Context, id string) (*catalog.Attribute, error) {
	var model models.AttributeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an attribute
func (r *GormAttributeRepository) Save(ctx context.Context, attribute *catalog.Attribute) error {
	model := &models.AttributeModel{}
	model.FromDomain(attribute)
	return upsertByKey(ctx, r.db, model)
}

// FindValue finds an attribute value by (attribute, source value)
func (r *GormAttributeRepository) FindValue(ctx context.Context, attributeID, sourceValue string) (*catalog.AttributeValue, error) {
	var model models.AttributeValueModel
	if err := r.db.WithContext(ctx).
		Where("attribute_id = ? AND source_value = ?", attributeID, sourceValue).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindValuesBySource finds values of any attribute carrying sourceValue
func (r *GormAttributeRepository) FindValuesBySource(ctx context.Context, sourceValue string) ([]catalog.AttributeValue, error) {
	var rows []models.AttributeValueModel
	if err := r.db.WithContext(ctx).
		Where("source_value = ?", sourceValue).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAttributeValues(rows), nil
}

// ListValues lists the values of one attribute in creation order
func (r *GormAttributeRepository) ListValues(ctx context.Context, attributeID string) ([]catalog.AttributeValue, error) {
	var rows []models.AttributeValueModel
	if err := r.db.WithContext(ctx).
		Where("attribute_id = ?", attributeID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAttributeValues(rows), nil
}

// SaveValue creates or updates an attribute value
func (r *GormAttributeRepository) SaveValue(ctx context.Context, value *catalog.AttributeValue) error {
	model := &models.AttributeValueModel{}
	model.FromDomain(value)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	value.ID = model.ID
	return nil
}

// CountValues returns the number of attribute values
func (r *GormAttributeRepository) CountValues(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AttributeValueModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toAttributeValues(rows []models.AttributeValueModel) []catalog.AttributeValue {
	values := make([]catalog.AttributeValue, len(rows))
	for i := range rows {
		values[i] = *rows[i].ToDomain()
	}
	return values
}

// GormAddOnTypeRepository implements catalog.AddOnTypeRepository using GORM
type GormAddOnTypeRepository struct {
	db *gorm.DB
}

// NewGormAddOnTypeRepository creates a new GormAddOnTypeRepository
func NewGormAddOnTypeRepository(db *gorm.DB) *GormAddOnTypeRepository {
	return &GormAddOnTypeRepository{db: db}
}

// FindByID finds an add-on type by its ID
func (r *GormAddOnTypeRepository) FindByID(ctx context.Context, id string) (*catalog.AddOnType, error) {
	var model models.AddOnTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an add-on type
func (r *GormAddOnTypeRepository) Save(ctx context.Context, addOnType *catalog.AddOnType) error {
	model := &models.AddOnTypeModel{}
	model.FromDomain(addOnType)
	return upsertByKey(ctx, r.db, model)
}
