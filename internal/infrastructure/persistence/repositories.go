package persistence

import (
	"github.com/erp/catalogsync/internal/domain/catalog"
	"gorm.io/gorm"
)

// NewRepositories wires every GORM repository onto one connection
func NewRepositories(db *gorm.DB) catalog.Repositories {
	return catalog.Repositories{
		Products:          NewGormProductRepository(db),
		ProductTypes:      NewGormProductTypeRepository(db),
		Variations:        NewGormVariationRepository(db),
		VariationTypes:    NewGormVariationTypeRepository(db),
		Attributes:        NewGormAttributeRepository(db),
		Vocabularies:      NewGormVocabularyRepository(db),
		Terms:             NewGormTermRepository(db),
		Fields:            NewGormFieldRepository(db),
		Files:             NewGormFileRepository(db),
		PathAliases:       NewGormPathAliasRepository(db),
		Stores:            NewGormStoreRepository(db),
		AddOnTypes:        NewGormAddOnTypeRepository(db),
		StockTransactions: NewGormStockTransactionRepository(db),
	}
}
