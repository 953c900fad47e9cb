package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/varejo/backend/internal/domain/partner"
	"github.com/varejo/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLoyaltyMovementRepository implements LoyaltyMovementRepository using GORM
type GormLoyaltyMovementRepository struct {
	db *gorm.DB
}

// NewGormLoyaltyMovementRepository creates a new GormLoyaltyMovementRepository
func NewGormLoyaltyMovementRepository(db *gorm.DB) *GormLoyaltyMovementRepository {
	return &GormLoyaltyMovementRepository{db: db}
}

// FindEarnBySale finds the earn movement recorded for a sale
func (r *GormLoyaltyMovementRepository) FindEarnBySale(ctx context.Context, saleID uuid.UUID) (*partner.LoyaltyMovement, error) {
	var movement partner.LoyaltyMovement
	if err := r.db.WithContext(ctx).
		First(&movement, "sale_id = ? AND kind = ?", saleID, partner.LoyaltyMovementEarn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// Append appends a movement to the loyalty log
func (r *GormLoyaltyMovementRepository) Append(ctx context.Context, movement *partner.LoyaltyMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// Ensure GormLoyaltyMovementRepository implements LoyaltyMovementRepository
var _ partner.LoyaltyMovementRepository = (*GormLoyaltyMovementRepository)(nil)
