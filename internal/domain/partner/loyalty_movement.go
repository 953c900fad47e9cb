package partner

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/shared"
)

// LoyaltyMovementKind represents the kind of loyalty movement
type LoyaltyMovementKind string

const (
	// LoyaltyMovementEarn records points granted for a sale
	LoyaltyMovementEarn LoyaltyMovementKind = "EARN"
	// LoyaltyMovementReversal records points taken back when a sale is reversed
	LoyaltyMovementReversal LoyaltyMovementKind = "REVERSAL"
)

// IsValid returns true if the movement kind is valid
func (k LoyaltyMovementKind) IsValid() bool {
	return k == LoyaltyMovementEarn || k == LoyaltyMovementReversal
}

// String returns the string representation of LoyaltyMovementKind
func (k LoyaltyMovementKind) String() string {
	return string(k)
}

// LoyaltyMovement is an append-only record of loyalty points granted or reversed.
// Earn movements carry positive points; reversal movements mirror the earn with
// the negated value.
type LoyaltyMovement struct {
	shared.BaseEntity
	ClientID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	SaleID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Kind        LoyaltyMovementKind `gorm:"type:varchar(10);not null"`
	Points      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Description string              `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (LoyaltyMovement) TableName() string {
	return "loyalty_movements"
}

// NewLoyaltyReversal builds the reversal movement mirroring an earn movement
func NewLoyaltyReversal(earn *LoyaltyMovement, description string) (*LoyaltyMovement, error) {
	if earn == nil || earn.Kind != LoyaltyMovementEarn {
		return nil, shared.NewDomainError("INVALID_MOVEMENT", "Reversal requires an earn movement")
	}
	if earn.Points.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_POINTS", "Earn movement has no points to reverse")
	}

	return &LoyaltyMovement{
		BaseEntity:  shared.NewBaseEntity(),
		ClientID:    earn.ClientID,
		SaleID:      earn.SaleID,
		Kind:        LoyaltyMovementReversal,
		Points:      earn.Points.Neg(),
		Description: description,
	}, nil
}
