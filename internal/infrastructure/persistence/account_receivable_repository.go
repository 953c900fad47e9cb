package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/varejo/backend/internal/domain/finance"
	"github.com/varejo/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAccountReceivableRepository implements AccountReceivableRepository using GORM
type GormAccountReceivableRepository struct {
	db *gorm.DB
}

// NewGormAccountReceivableRepository creates a new GormAccountReceivableRepository
func NewGormAccountReceivableRepository(db *gorm.DB) *GormAccountReceivableRepository {
	return &GormAccountReceivableRepository{db: db}
}

// FindBySale finds the receivable created for a credit sale
func (r *GormAccountReceivableRepository) FindBySale(ctx context.Context, saleID uuid.UUID) (*finance.AccountReceivable, error) {
	var receivable finance.AccountReceivable
	if err := r.db.WithContext(ctx).First(&receivable, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receivable, nil
}

// Save creates or updates a receivable
func (r *GormAccountReceivableRepository) Save(ctx context.Context, receivable *finance.AccountReceivable) error {
	return r.db.WithContext(ctx).Save(receivable).Error
}

// Ensure GormAccountReceivableRepository implements AccountReceivableRepository
var _ finance.AccountReceivableRepository = (*GormAccountReceivableRepository)(nil)
