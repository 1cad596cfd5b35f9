package catalog

import (
	"strings"
	"time"

	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/erp/catalogsync/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Variation is a purchasable unit. At most one variation exists per SKU.
type Variation struct {
	ID        uint
	Type      string // variation type (archetype key)
	SKU       string
	Title     string
	Price     valueobject.Price
	ProductID uint
	Stock     decimal.Decimal
	Fields    Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewVariation creates an unsaved variation
func NewVariation(variationType, sku, title string, price valueobject.Price) (*Variation, error) {
	if strings.TrimSpace(variationType) == "" {
		return nil, shared.NewDomainError("INVALID_VARIATION_TYPE", "Variation type cannot be empty")
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	return &Variation{
		Type:   variationType,
		SKU:    sku,
		Title:  title,
		Price:  price,
		Fields: make(Fields),
	}, nil
}

// IsNew reports whether the variation has not been persisted yet
func (v *Variation) IsNew() bool {
	return v.ID == 0
}

// SetPrice replaces the price
func (v *Variation) SetPrice(price valueobject.Price) {
	v.Price = price
}

// SetStock records the current stock quantity
func (v *Variation) SetStock(qty decimal.Decimal) {
	v.Stock = qty
}

// VariationType is a variation bundle; its id is the archetype key
type VariationType struct {
	ID            string
	Label         string
	OrderItemType string
	GenerateTitle bool
	Status        bool
}

// NewVariationType creates an enabled variation type with generated titles
func NewVariationType(id, label string) (*VariationType, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewDomainError("INVALID_VARIATION_TYPE", "Variation type id cannot be empty")
	}
	return &VariationType{
		ID:            id,
		Label:         label,
		OrderItemType: DefaultOrderItemType,
		GenerateTitle: true,
		Status:        true,
	}, nil
}

// Validate checks a variation before it is committed
func (v *Variation) Validate() error {
	if strings.TrimSpace(v.Type) == "" {
		return shared.NewDomainError("INVALID_VARIATION_TYPE", "Variation type cannot be empty")
	}
	if err := validateSKU(v.SKU); err != nil {
		return err
	}
	if !v.Price.Currency().IsValid() {
		return shared.NewDomainError("INVALID_PRICE", "Variation price needs a currency")
	}
	return nil
}
