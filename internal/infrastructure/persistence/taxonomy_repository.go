package persistence

import (
	"context"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormVocabularyRepository implements catalog.VocabularyRepository using GORM
type GormVocabularyRepository struct {
	db *gorm.DB
}

// NewGormVocabularyRepository creates a new GormVocabularyRepository
func NewGormVocabularyRepository(db *gorm.DB) *GormVocabularyRepository {
	return &GormVocabularyRepository{db: db}
}

// FindByID finds a vocabulary by its ID
func (r *GormVocabularyRepository) FindByID(ctx context.Context, id string) (*catalog.Vocabulary, error) {
	var model models.VocabularyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a vocabulary
func (r *GormVocabularyRepository) Save(ctx context.Context, vocabulary *catalog.Vocabulary) error {
	model := &models.VocabularyModel{}
	model.FromDomain(vocabulary)
	return upsertByKey(ctx, r.db, model)
}

// GormTermRepository implements catalog.TermRepository using GORM
type GormTermRepository struct {
	db *gorm.DB
}

// NewGormTermRepository creates a new GormTermRepository
func NewGormTermRepository(db *gorm.DB) *GormTermRepository {
	return &GormTermRepository{db: db}
}

// FindByID finds a term by its ID
func (r *GormTermRepository) FindByID(ctx context.Context, id uint) (*catalog.Term, error) {
	var model models.TermModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByNameAndParents finds a term by (vocabulary, name, parent set)
func (r *GormTermRepository) FindByNameAndParents(ctx context.Context, vocabularyID, name string, parents []uint) (*catalog.Term, error) {
	var model models.TermModel
	if err := r.db.WithContext(ctx).
		Where("vocabulary_id = ? AND name = ? AND parent_key = ?", vocabularyID, name, catalog.ParentKey(parents)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds the oldest term with the given name in any vocabulary
func (r *GormTermRepository) FindByName(ctx context.Context, name string) (*catalog.Term, error) {
	var model models.TermModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a term
func (r *GormTermRepository) Save(ctx context.Context, term *catalog.Term) error {
	model := &models.TermModel{}
	model.FromDomain(term)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	term.ID = model.ID
	return nil
}

// Count returns the number of terms
func (r *GormTermRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TermModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
