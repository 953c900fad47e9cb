package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/partner"
	"github.com/varejo/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	var client partner.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// DebitCredit decreases the client's credit balance, clamped at zero. The
// clamp happens inside the UPDATE so concurrent debits cannot drive the
// balance negative.
func (r *GormClientRepository) DebitCredit(ctx context.Context, clientID uuid.UUID, value decimal.Decimal) error {
	if value.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Debit value must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&partner.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]interface{}{
			"credit_balance": gorm.Expr("GREATEST(credit_balance - ?, 0)", value),
			"updated_at":     gorm.Expr("NOW()"),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DebitLoyaltyPoints decreases the client's loyalty points, clamped at zero
func (r *GormClientRepository) DebitLoyaltyPoints(ctx context.Context, clientID uuid.UUID, points decimal.Decimal) error {
	if points.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Points must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&partner.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]interface{}{
			"loyalty_points": gorm.Expr("GREATEST(loyalty_points - ?, 0)", points),
			"updated_at":     gorm.Expr("NOW()"),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormClientRepository implements ClientRepository
var _ partner.ClientRepository = (*GormClientRepository)(nil)
