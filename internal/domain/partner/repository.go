package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRepository defines persistence operations for clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// DebitCredit atomically decreases the client's credit balance by value,
	// clamped at zero, in a single conditional update
	DebitCredit(ctx context.Context, clientID uuid.UUID, value decimal.Decimal) error

	// DebitLoyaltyPoints atomically decreases the client's loyalty points by
	// points, clamped at zero, in a single conditional update
	DebitLoyaltyPoints(ctx context.Context, clientID uuid.UUID, points decimal.Decimal) error
}

// LoyaltyMovementRepository defines operations on the loyalty movement log
type LoyaltyMovementRepository interface {
	// FindEarnBySale returns the earn movement recorded for a sale, if any
	FindEarnBySale(ctx context.Context, saleID uuid.UUID) (*LoyaltyMovement, error)

	Append(ctx context.Context, movement *LoyaltyMovement) error
}
