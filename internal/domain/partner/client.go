package partner

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/shared"
)

// Client represents a retail customer with a prepaid credit balance and a
// loyalty points balance. Both balances are floor-clamped at zero: a reversal
// can never drive them negative even when the client already spent part of
// what is being reversed.
type Client struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(200);not null"`
	TaxID         string          `gorm:"type:varchar(20);index"`
	CreditBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LoyaltyPoints decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// DebitCredit decreases the credit balance by value, clamped at zero
func (c *Client) DebitCredit(value decimal.Decimal) error {
	if value.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_VALUE", "Debit value must be positive")
	}
	c.CreditBalance = c.CreditBalance.Sub(value)
	if c.CreditBalance.IsNegative() {
		c.CreditBalance = decimal.Zero
	}
	c.UpdatedAt = time.Now()
	return nil
}

// DebitLoyaltyPoints decreases the loyalty points by points, clamped at zero
func (c *Client) DebitLoyaltyPoints(points decimal.Decimal) error {
	if points.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_POINTS", "Points must be positive")
	}
	c.LoyaltyPoints = c.LoyaltyPoints.Sub(points)
	if c.LoyaltyPoints.IsNegative() {
		c.LoyaltyPoints = decimal.Zero
	}
	c.UpdatedAt = time.Now()
	return nil
}
