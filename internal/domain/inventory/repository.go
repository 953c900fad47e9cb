package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRepository defines persistence operations for stock levels and movements
type StockRepository interface {
	FindLevelByProduct(ctx context.Context, productID uuid.UUID) (*StockLevel, error)

	// AddQuantity atomically increments a product's on-hand quantity in a
	// single conditional update so concurrent adjustments never lose writes.
	// Creates the stock level row when the product has none.
	AddQuantity(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) error

	// AppendMovement appends an immutable movement record to the audit log
	AppendMovement(ctx context.Context, movement *StockMovement) error
}
