package inventory

import (
	"context"
	"time"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/erp/catalogsync/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockReceiptService books incoming stock as receipt transactions in the
// stock ledger
type StockReceiptService struct {
	transactions catalog.StockTransactionRepository
	logger       *zap.Logger
	now          func() time.Time
}

var _ catalog.StockService = (*StockReceiptService)(nil)

// NewStockReceiptService creates a new StockReceiptService
func NewStockReceiptService(transactions catalog.StockTransactionRepository, logger *zap.Logger) *StockReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockReceiptService{
		transactions: transactions,
		logger:       logger.Named("stock"),
		now:          time.Now,
	}
}

// ReceiveStock records quantity units of the variation arriving at the
// location's default zone at unitCost
func (s *StockReceiptService) ReceiveStock(ctx context.Context, variation *catalog.Variation, locationID uint, quantity decimal.Decimal, unitCost valueobject.Price) error {
	if variation == nil || variation.IsNew() {
		return shared.NewDomainError("INVALID_VARIATION", "Stock can only be received for a saved variation")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if !unitCost.Currency().IsValid() {
		return shared.NewDomainError("INVALID_PRICE", "Unit cost needs a currency")
	}

	tx := &catalog.StockTransaction{
		ID:          uuid.New(),
		VariationID: variation.ID,
		LocationID:  locationID,
		Zone:        catalog.DefaultStockZone,
		Quantity:    quantity,
		UnitCost:    unitCost,
		Type:        catalog.StockTransactionReceipt,
		CreatedAt:   s.now(),
	}
	if err := s.transactions.Save(ctx, tx); err != nil {
		return err
	}

	s.logger.Info("Stock received",
		zap.String("variation_sku", variation.SKU),
		zap.Uint("location_id", locationID),
		zap.String("quantity", quantity.String()),
		zap.String("unit_cost", unitCost.String()),
	)
	return nil
}
