package models

import (
	"time"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockTransactionModel is the persistence model for stock ledger entries
type StockTransactionModel struct {
	ID           uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	VariationID  uint                         `gorm:"not null;index"`
	LocationID   uint                         `gorm:"not null;index"`
	Zone         string                       `gorm:"type:varchar(50);not null"`
	Quantity     decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	UnitCost     decimal.Decimal              `gorm:"type:decimal(18,4);not null;default:0"`
	CurrencyCode string                       `gorm:"type:varchar(3);not null"`
	Type         catalog.StockTransactionType `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time                    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockTransactionModel) TableName() string {
	return "commerce_stock_transactions"
}

// ToDomain converts the persistence model to a domain StockTransaction.
func (m *StockTransactionModel) ToDomain() *catalog.StockTransaction {
	cost, err := valueobject.NewPrice(m.UnitCost, m.CurrencyCode)
	if err != nil {
		cost, _ = valueobject.NewPrice(m.UnitCost, valueobject.DefaultCurrencyCode.String())
	}
	return &catalog.StockTransaction{
		ID:          m.ID,
		VariationID: m.VariationID,
		LocationID:  m.LocationID,
		Zone:        m.Zone,
		Quantity:    m.Quantity,
		UnitCost:    cost,
		Type:        m.Type,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain StockTransaction.
func (m *StockTransactionModel) FromDomain(tx *catalog.StockTransaction) {
	m.ID = tx.ID
	m.VariationID = tx.VariationID
	m.LocationID = tx.LocationID
	m.Zone = tx.Zone
	m.Quantity = tx.Quantity
	m.UnitCost = tx.UnitCost.Amount()
	m.CurrencyCode = tx.UnitCost.Currency().String()
	m.Type = tx.Type
	m.CreatedAt = tx.CreatedAt
}
