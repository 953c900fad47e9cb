package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/varejo/backend/internal/domain/sales"
	"github.com/varejo/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID loads a sale with its items and payments
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// Save persists the sale's mutable fields. Items and payments are immutable
// once recorded, so only the sale row itself is written. The write is guarded
// by the version loaded with the sale: a concurrent writer bumps the version
// first and this update then matches zero rows.
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	result := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Where("id = ? AND version = ?", sale.ID, sale.Version).
		Updates(map[string]interface{}{
			"status":      sale.Status,
			"observation": sale.Observation,
			"updated_at":  sale.UpdatedAt,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	sale.Version++
	return nil
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
