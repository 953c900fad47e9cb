package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/inventory"
	"github.com/varejo/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindLevelByProduct finds the stock level for a product
func (r *GormStockRepository) FindLevelByProduct(ctx context.Context, productID uuid.UUID) (*inventory.StockLevel, error) {
	var level inventory.StockLevel
	if err := r.db.WithContext(ctx).First(&level, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// AddQuantity increments a product's on-hand quantity in a single atomic
// update so concurrent reversals never lose writes. Products without a stock
// level row get one created on first use.
func (r *GormStockRepository) AddQuantity(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}

	level, err := inventory.NewStockLevel(productID)
	if err != nil {
		return err
	}
	if err := level.Add(quantity); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity_on_hand": gorm.Expr("stock_levels.quantity_on_hand + ?", quantity),
				"updated_at":       gorm.Expr("NOW()"),
			}),
		}).
		Create(level).Error
}

// AppendMovement appends an immutable movement record to the audit log
func (r *GormStockRepository) AppendMovement(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// Ensure GormStockRepository implements StockRepository
var _ inventory.StockRepository = (*GormStockRepository)(nil)
