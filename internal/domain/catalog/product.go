package catalog

import (
	"strings"
	"time"

	"github.com/erp/catalogsync/internal/domain/shared"
)

// Product is the parent commerce entity. It owns its variations; this
// engine never deletes either.
type Product struct {
	ID           uint
	Type         string // product type (bundle) id
	SKU          string
	Title        string
	StoreIDs     []uint
	VariationIDs []uint
	Fields       Fields
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProduct creates an unsaved product of the given type
func NewProduct(productType, sku, title string) (*Product, error) {
	if strings.TrimSpace(productType) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type cannot be empty")
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	return &Product{
		Type:   productType,
		SKU:    sku,
		Title:  title,
		Fields: make(Fields),
	}, nil
}

// IsNew reports whether the product has not been persisted yet
func (p *Product) IsNew() bool {
	return p.ID == 0
}

// AddVariation attaches a variation once
func (p *Product) AddVariation(id uint) {
	p.VariationIDs = appendUnique(p.VariationIDs, id)
}

// AddStore attaches a store once
func (p *Product) AddStore(id uint) {
	p.StoreIDs = appendUnique(p.StoreIDs, id)
}

// ProductType is a product bundle, keyed by remote attribute set id
type ProductType struct {
	ID              string
	Label           string
	VariationTypeID string
	Description     string
}

// NewProductType creates a product type
func NewProductType(id, label, variationTypeID string) (*ProductType, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type id cannot be empty")
	}
	if variationTypeID == "" {
		variationTypeID = "default"
	}
	return &ProductType{ID: id, Label: label, VariationTypeID: variationTypeID}, nil
}

// Address is a postal address
type Address struct {
	CountryCode        string `json:"country_code"`
	AddressLine1       string `json:"address_line1"`
	Locality           string `json:"locality"`
	AdministrativeArea string `json:"administrative_area"`
	PostalCode         string `json:"postal_code"`
}

// Store is a sales channel products are published to
type Store struct {
	ID               uint
	Type             string
	Name             string
	Mail             string
	DefaultCurrency  string
	BillingCountries []string
	Address          Address
	IsDefault        bool
}

func validateSKU(sku string) error {
	if strings.TrimSpace(sku) == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	return nil
}

func appendUnique(ids []uint, id uint) []uint {
	if id == 0 {
		return ids
	}
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
