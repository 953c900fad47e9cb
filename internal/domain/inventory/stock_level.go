package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/shared"
)

// StockLevel represents the on-hand quantity of a product
type StockLevel struct {
	shared.BaseAggregateRoot
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	QuantityOnHand decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates a stock level record for a product
func NewStockLevel(productID uuid.UUID) (*StockLevel, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &StockLevel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		QuantityOnHand:    decimal.Zero,
	}, nil
}

// Add increases the on-hand quantity
func (l *StockLevel) Add(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	l.QuantityOnHand = l.QuantityOnHand.Add(quantity)
	return nil
}
