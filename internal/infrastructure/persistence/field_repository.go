package persistence

import (
	"context"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFieldRepository implements catalog.FieldRepository using GORM
type GormFieldRepository struct {
	db *gorm.DB
}

// NewGormFieldRepository creates a new GormFieldRepository
func NewGormFieldRepository(db *gorm.DB) *GormFieldRepository {
	return &GormFieldRepository{db: db}
}

// FindStorage finds the storage of a field on an entity kind
func (r *GormFieldRepository) FindStorage(ctx context.Context, kind catalog.EntityKind, fieldName string) (*catalog.FieldStorage, error) {
	var model models.FieldStorageModel
	if err := r.db.WithContext(ctx).
		Where("entity_kind = ? AND field_name = ?", kind, fieldName).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// SaveStorage creates or updates a field storage
func (r *GormFieldRepository) SaveStorage(ctx context.Context, storage *catalog.FieldStorage) error {
	model := &models.FieldStorageModel{}
	model.FromDomain(storage)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	storage.ID = model.ID
	return nil
}

// FindConfig finds the configuration of a field on a bundle
func (r *GormFieldRepository) FindConfig(ctx context.Context, kind catalog.EntityKind, bundle, fieldName string) (*catalog.FieldConfig, error) {
	var model models.FieldConfigModel
	if err := r.db.WithContext(ctx).
		Where("entity_kind = ? AND bundle = ? AND field_name = ?", kind, bundle, fieldName).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// SaveConfig creates or updates a field configuration
func (r *GormFieldRepository) SaveConfig(ctx context.Context, config *catalog.FieldConfig) error {
	model := &models.FieldConfigModel{}
	model.FromDomain(config)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	config.ID = model.ID
	return nil
}

// ListConfigs lists the fields configured on a bundle
func (r *GormFieldRepository) ListConfigs(ctx context.Context, kind catalog.EntityKind, bundle string) ([]catalog.FieldConfig, error) {
	var rows []models.FieldConfigModel
	if err := r.db.WithContext(ctx).
		Where("entity_kind = ? AND bundle = ?", kind, bundle).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	configs := make([]catalog.FieldConfig, len(rows))
	for i := range rows {
		configs[i] = *rows[i].ToDomain()
	}
	return configs, nil
}

// GormFileRepository implements catalog.FileRepository using GORM
type GormFileRepository struct {
	db *gorm.DB
}

// NewGormFileRepository creates a new GormFileRepository
func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

// FindByURI finds a managed file by its URI
func (r *GormFileRepository) FindByURI(ctx context.Context, uri string) (*catalog.File, error) {
	var model models.FileModel
	if err := r.db.WithContext(ctx).Where("uri = ?", uri).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a managed file
func (r *GormFileRepository) Save(ctx context.Context, file *catalog.File) error {
	model := &models.FileModel{}
	model.FromDomain(file)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	file.ID = model.ID
	return nil
}

// GormPathAliasRepository implements catalog.PathAliasRepository using GORM
type GormPathAliasRepository struct {
	db *gorm.DB
}

// NewGormPathAliasRepository creates a new GormPathAliasRepository
func NewGormPathAliasRepository(db *gorm.DB) *GormPathAliasRepository {
	return &GormPathAliasRepository{db: db}
}

// FindByPath finds the alias of an internal path in a language
func (r *GormPathAliasRepository) FindByPath(ctx context.Context, path, langcode string) (*catalog.PathAlias, error) {
	var model models.PathAliasModel
	if err := r.db.WithContext(ctx).
		Where("path = ? AND langcode = ?", path, langcode).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a path alias
func (r *GormPathAliasRepository) Save(ctx context.Context, alias *catalog.PathAlias) error {
	model := &models.PathAliasModel{}
	model.FromDomain(alias)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	alias.ID = model.ID
	return nil
}
