package catalog

import (
	"context"
	"time"

	"github.com/erp/catalogsync/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockTransactionType classifies ledger entries
type StockTransactionType string

const (
	StockTransactionReceipt StockTransactionType = "receipt"
)

// DefaultStockZone is the zone stock is received into
const DefaultStockZone = "default"

// StockTransaction is one ledger entry
type StockTransaction struct {
	ID          uuid.UUID
	VariationID uint
	LocationID  uint
	Zone        string
	Quantity    decimal.Decimal
	UnitCost    valueobject.Price
	Type        StockTransactionType
	CreatedAt   time.Time
}

// StockService records stock movements for variations
type StockService interface {
	// ReceiveStock records quantity units arriving at a location at unitCost
	ReceiveStock(ctx context.Context, variation *Variation, locationID uint, quantity decimal.Decimal, unitCost valueobject.Price) error
}
