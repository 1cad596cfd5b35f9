package catalog

import "context"

// Every Find method returns shared.ErrNotFound when nothing matches the
// natural key. Save creates the entity when it is new and updates it otherwise.

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	Save(ctx context.Context, product *Product) error
	Count(ctx context.Context) (int64, error)
}

// ProductTypeRepository persists product types
type ProductTypeRepository interface {
	FindByID(ctx context.Context, id string) (*ProductType, error)
	FindAll(ctx context.Context) ([]ProductType, error)
	Save(ctx context.Context, productType *ProductType) error
}

// VariationRepository persists variations
type VariationRepository interface {
	FindByID(ctx context.Context, id uint) (*Variation, error)
	FindBySKU(ctx context.Context, sku string) (*Variation, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*Variation, error)
	Save(ctx context.Context, variation *Variation) error
	Count(ctx context.Context) (int64, error)
}

// VariationTypeRepository persists variation types
type VariationTypeRepository interface {
	FindByID(ctx context.Context, id string) (*VariationType, error)
	Save(ctx context.Context, variationType *VariationType) error
}

// AttributeRepository persists attributes and their values
type AttributeRepository interface {
	FindByID(ctx context.Context, id string) (*Attribute, error)
	Save(ctx context.Context, attribute *Attribute) error
	FindValue(ctx context.Context, attributeID, sourceValue string) (*AttributeValue, error)
	FindValuesBySource(ctx context.Context, sourceValue string) ([]AttributeValue, error)
	ListValues(ctx context.Context, attributeID string) ([]AttributeValue, error)
	SaveValue(ctx context.Context, value *AttributeValue) error
	CountValues(ctx context.Context) (int64, error)
}

// VocabularyRepository persists vocabularies
type VocabularyRepository interface {
	FindByID(ctx context.Context, id string) (*Vocabulary, error)
	Save(ctx context.Context, vocabulary *Vocabulary) error
}

// TermRepository persists taxonomy terms
type TermRepository interface {
	FindByID(ctx context.Context, id uint) (*Term, error)
	// FindByNameAndParents matches (vocabulary, name, parent set)
	FindByNameAndParents(ctx context.Context, vocabularyID, name string, parents []uint) (*Term, error)
	// FindByName matches a term by name in any vocabulary
	FindByName(ctx context.Context, name string) (*Term, error)
	Save(ctx context.Context, term *Term) error
	Count(ctx context.Context) (int64, error)
}

// FieldRepository persists field storages and bundle configurations
type FieldRepository interface {
	FindStorage(ctx context.Context, kind EntityKind, fieldName string) (*FieldStorage, error)
	SaveStorage(ctx context.Context, storage *FieldStorage) error
	FindConfig(ctx context.Context, kind EntityKind, bundle, fieldName string) (*FieldConfig, error)
	SaveConfig(ctx context.Context, config *FieldConfig) error
	ListConfigs(ctx context.Context, kind EntityKind, bundle string) ([]FieldConfig, error)
}

// FileRepository persists managed files
type FileRepository interface {
	FindByURI(ctx context.Context, uri string) (*File, error)
	Save(ctx context.Context, file *File) error
}

// PathAliasRepository persists URL aliases
type PathAliasRepository interface {
	FindByPath(ctx context.Context, path, langcode string) (*PathAlias, error)
	Save(ctx context.Context, alias *PathAlias) error
}

// StoreRepository persists stores
type StoreRepository interface {
	FindDefault(ctx context.Context) (*Store, error)
	Save(ctx context.Context, store *Store) error
}

// AddOnTypeRepository persists add-on types
type AddOnTypeRepository interface {
	FindByID(ctx context.Context, id string) (*AddOnType, error)
	Save(ctx context.Context, addOnType *AddOnType) error
}

// StockTransactionRepository persists stock ledger entries
type StockTransactionRepository interface {
	Save(ctx context.Context, tx *StockTransaction) error
	FindByVariation(ctx context.Context, variationID uint) ([]StockTransaction, error)
}

// Repositories bundles every repository the synchronizer needs.
// Components take only the fields they use.
type Repositories struct {
	Products          ProductRepository
	ProductTypes      ProductTypeRepository
	Variations        VariationRepository
	VariationTypes    VariationTypeRepository
	Attributes        AttributeRepository
	Vocabularies      VocabularyRepository
	Terms             TermRepository
	Fields            FieldRepository
	Files             FileRepository
	PathAliases       PathAliasRepository
	Stores            StoreRepository
	AddOnTypes        AddOnTypeRepository
	StockTransactions StockTransactionRepository
}
