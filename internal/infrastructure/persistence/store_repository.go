package persistence

import (
	"context"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStoreRepository implements catalog.StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindDefault finds the default store
func (r *GormStoreRepository) FindDefault(ctx context.Context) (*catalog.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, store *catalog.Store) error {
	model := &models.StoreModel{}
	model.FromDomain(store)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	store.ID = model.ID
	return nil
}

// GormStockTransactionRepository implements catalog.StockTransactionRepository using GORM
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// Save appends a ledger entry
func (r *GormStockTransactionRepository) Save(ctx context.Context, tx *catalog.StockTransaction) error {
	model := &models.StockTransactionModel{}
	model.FromDomain(tx)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	tx.CreatedAt = model.CreatedAt
	return nil
}

// FindByVariation lists the ledger of one variation, oldest first
func (r *GormStockTransactionRepository) FindByVariation(ctx context.Context, variationID uint) ([]catalog.StockTransaction, error) {
	var rows []models.StockTransactionModel
	if err := r.db.WithContext(ctx).
		Where("variation_id = ?", variationID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	txs := make([]catalog.StockTransaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs, nil
}
