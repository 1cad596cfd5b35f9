package models

import (
	"time"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	ID           uint      `gorm:"primaryKey"`
	Type         string    `gorm:"type:varchar(100);not null;index"`
	SKU          string    `gorm:"column:sku;type:varchar(64);not null;uniqueIndex:idx_products_sku"`
	Title        string    `gorm:"type:varchar(255);not null"`
	StoreIDs     string    `gorm:"column:store_ids;type:text"`
	VariationIDs string    `gorm:"column:variation_ids;type:text"`
	Fields       string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "commerce_products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		ID:        m.ID,
		Type:      m.Type,
		SKU:       m.SKU,
		Title:     m.Title,
		Fields:    make(catalog.Fields),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	decodeJSON(m.StoreIDs, &p.StoreIDs)
	decodeJSON(m.VariationIDs, &p.VariationIDs)
	decodeJSON(m.Fields, &p.Fields)
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.Type = p.Type
	m.SKU = p.SKU
	m.Title = p.Title
	m.StoreIDs = encodeJSON(p.StoreIDs)
	m.VariationIDs = encodeJSON(p.VariationIDs)
	m.Fields = encodeJSON(p.Fields)
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// ProductTypeModel is the persistence model for product types
type ProductTypeModel struct {
	ID              string    `gorm:"type:varchar(100);primaryKey"`
	Label           string    `gorm:"type:varchar(255);not null"`
	VariationTypeID string    `gorm:"column:variation_type_id;type:varchar(100);not null"`
	Description     string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductTypeModel) TableName() string {
	return "commerce_product_types"
}

// ToDomain converts the persistence model to a domain ProductType.
func (m *ProductTypeModel) ToDomain() *catalog.ProductType {
	return &catalog.ProductType{
		ID:              m.ID,
		Label:           m.Label,
		VariationTypeID: m.VariationTypeID,
		Description:     m.Description,
	}
}

// FromDomain populates the persistence model from a domain ProductType.
func (m *ProductTypeModel) FromDomain(t *catalog.ProductType) {
	m.ID = t.ID
	m.Label = t.Label
	m.VariationTypeID = t.VariationTypeID
	m.Description = t.Description
}

// VariationModel is the persistence model for the Variation domain entity.
type VariationModel struct {
	ID            uint            `gorm:"primaryKey"`
	Type          string          `gorm:"type:varchar(100);not null;index"`
	SKU           string          `gorm:"column:sku;type:varchar(64);not null;uniqueIndex:idx_variations_sku"`
	Title         string          `gorm:"type:varchar(255)"`
	PriceAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PriceCurrency string          `gorm:"type:varchar(3);not null;default:'USD'"`
	ProductID     uint            `gorm:"index"`
	Stock         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Fields        string          `gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VariationModel) TableName() string {
	return "commerce_product_variations"
}

// ToDomain converts the persistence model to a domain Variation entity.
func (m *VariationModel) ToDomain() *catalog.Variation {
	price, err := valueobject.NewPrice(m.PriceAmount, m.PriceCurrency)
	if err != nil {
		price, _ = valueobject.NewPrice(m.PriceAmount, valueobject.DefaultCurrencyCode.String())
	}
	v := &catalog.Variation{
		ID:        m.ID,
		Type:      m.Type,
		SKU:       m.SKU,
		Title:     m.Title,
		Price:     price,
		ProductID: m.ProductID,
		Stock:     m.Stock,
		Fields:    make(catalog.Fields),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	decodeJSON(m.Fields, &v.Fields)
	return v
}

// FromDomain populates the persistence model from a domain Variation entity.
func (m *VariationModel) FromDomain(v *catalog.Variation) {
	m.ID = v.ID
	m.Type = v.Type
	m.SKU = v.SKU
	m.Title = v.Title
	m.PriceAmount = v.Price.Amount()
	m.PriceCurrency = v.Price.Currency().String()
	if m.PriceCurrency == "" {
		m.PriceCurrency = valueobject.DefaultCurrencyCode.String()
	}
	m.ProductID = v.ProductID
	m.Stock = v.Stock
	m.Fields = encodeJSON(v.Fields)
	m.CreatedAt = v.CreatedAt
	m.UpdatedAt = v.UpdatedAt
}

// VariationTypeModel is the persistence model for variation types
type VariationTypeModel struct {
	ID            string    `gorm:"type:varchar(100);primaryKey"`
	Label         string    `gorm:"type:varchar(255);not null"`
	OrderItemType string    `gorm:"type:varchar(100);not null;default:'default'"`
	GenerateTitle bool      `gorm:"not null;default:true"`
	Status        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VariationTypeModel) TableName() string {
	return "commerce_product_variation_types"
}

// ToDomain converts the persistence model to a domain VariationType.
func (m *VariationTypeModel) ToDomain() *catalog.VariationType {
	return &catalog.VariationType{
		ID:            m.ID,
		Label:         m.Label,
		OrderItemType: m.OrderItemType,
		GenerateTitle: m.GenerateTitle,
		Status:        m.Status,
	}
}

// FromDomain populates the persistence model from a domain VariationType.
func (m *VariationTypeModel) FromDomain(t *catalog.VariationType) {
	m.ID = t.ID
	m.Label = t.Label
	m.OrderItemType = t.OrderItemType
	m.GenerateTitle = t.GenerateTitle
	m.Status = t.Status
}

// AttributeModel is the persistence model for product attributes
type AttributeModel struct {
	ID        string    `gorm:"type:varchar(100);primaryKey"`
	Label     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AttributeModel) TableName() string {
	return "commerce_product_attributes"
}

// ToDomain converts the persistence model to a domain Attribute.
func (m *AttributeModel) ToDomain() *catalog.Attribute {
	return &catalog.Attribute{ID: m.ID, Label: m.Label}
}

// FromDomain populates the persistence model from a domain Attribute.
func (m *AttributeModel) FromDomain(a *catalog.Attribute) {
	m.ID = a.ID
	m.Label = a.Label
}

// AttributeValueModel is the persistence model for attribute values
type AttributeValueModel struct {
	ID          uint      `gorm:"primaryKey"`
	AttributeID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_attribute_values_natural,priority:1"`
	SourceValue string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_attribute_values_natural,priority:2;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Weight      int       `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AttributeValueModel) TableName() string {
	return "commerce_product_attribute_values"
}

// ToDomain converts the persistence model to a domain AttributeValue.
func (m *AttributeValueModel) ToDomain() *catalog.AttributeValue {
	return &catalog.AttributeValue{
		ID:          m.ID,
		AttributeID: m.AttributeID,
		SourceValue: m.SourceValue,
		Name:        m.Name,
		Weight:      m.Weight,
	}
}

// FromDomain populates the persistence model from a domain AttributeValue.
func (m *AttributeValueModel) FromDomain(v *catalog.AttributeValue) {
	m.ID = v.ID
	m.AttributeID = v.AttributeID
	m.SourceValue = v.SourceValue
	m.Name = v.Name
	m.Weight = v.Weight
}

// AddOnTypeModel is the persistence model for add-on types
type AddOnTypeModel struct {
	ID        string    `gorm:"type:varchar(100);primaryKey"`
	Label     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AddOnTypeModel) TableName() string {
	return "commerce_addon_types"
}

// ToDomain converts the persistence model to a domain AddOnType.
func (m *AddOnTypeModel) ToDomain() *catalog.AddOnType {
	return &catalog.AddOnType{ID: m.ID, Label: m.Label}
}

// FromDomain populates the persistence model from a domain AddOnType.
func (m *AddOnTypeModel) FromDomain(t *catalog.AddOnType) {
	m.ID = t.ID
	m.Label = t.Label
}

// StoreModel is the persistence model for stores
type StoreModel struct {
	ID                 uint      `gorm:"primaryKey"`
	Type               string    `gorm:"type:varchar(50);not null;default:'online'"`
	Name               string    `gorm:"type:varchar(255);not null"`
	Mail               string    `gorm:"type:varchar(255)"`
	DefaultCurrency    string    `gorm:"type:varchar(3);not null"`
	BillingCountries   string    `gorm:"type:text"`
	CountryCode        string    `gorm:"type:varchar(2)"`
	AddressLine1       string    `gorm:"type:varchar(255)"`
	Locality           string    `gorm:"type:varchar(100)"`
	AdministrativeArea string    `gorm:"type:varchar(100)"`
	PostalCode         string    `gorm:"type:varchar(20)"`
	IsDefault          bool      `gorm:"not null;default:false;index"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "commerce_stores"
}

// ToDomain converts the persistence model to a domain Store.
func (m *StoreModel) ToDomain() *catalog.Store {
	s := &catalog.Store{
		ID:              m.ID,
		Type:            m.Type,
		Name:            m.Name,
		Mail:            m.Mail,
		DefaultCurrency: m.DefaultCurrency,
		Address: catalog.Address{
			CountryCode:        m.CountryCode,
			AddressLine1:       m.AddressLine1,
			Locality:           m.Locality,
			AdministrativeArea: m.AdministrativeArea,
			PostalCode:         m.PostalCode,
		},
		IsDefault: m.IsDefault,
	}
	decodeJSON(m.BillingCountries, &s.BillingCountries)
	return s
}

// FromDomain populates the persistence model from a domain Store.
func (m *StoreModel) FromDomain(s *catalog.Store) {
	m.ID = s.ID
	m.Type = s.Type
	m.Name = s.Name
	m.Mail = s.Mail
	m.DefaultCurrency = s.DefaultCurrency
	m.BillingCountries = encodeJSON(s.BillingCountries)
	m.CountryCode = s.Address.CountryCode
	m.AddressLine1 = s.Address.AddressLine1
	m.Locality = s.Address.Locality
	m.AdministrativeArea = s.Address.AdministrativeArea
	m.PostalCode = s.Address.PostalCode
	m.IsDefault = s.IsDefault
}
