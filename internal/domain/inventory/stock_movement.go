package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/shared"
)

// MovementKind represents the direction of a stock movement
type MovementKind string

const (
	// MovementKindIn represents stock entering inventory
	MovementKindIn MovementKind = "IN"
	// MovementKindOut represents stock leaving inventory
	MovementKindOut MovementKind = "OUT"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsValid returns true if the movement kind is valid
func (k MovementKind) IsValid() bool {
	return k == MovementKindIn || k == MovementKindOut
}

// StockMovement is an immutable record of a stock change. Once created,
// movements cannot be modified - corrections are made with new movements.
type StockMovement struct {
	shared.BaseEntity
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind           MovementKind    `gorm:"type:varchar(5);not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OriginDocument string          `gorm:"type:varchar(100)"`
	Note           string          `gorm:"type:varchar(255)"`
	OccurredAt     time.Time       `gorm:"type:timestamptz;not null;index"`
	ActorID        *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement record
func NewStockMovement(productID uuid.UUID, kind MovementKind, quantity, unitCost decimal.Decimal, originDocument, note string) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_KIND", "Invalid movement kind")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		Kind:           kind,
		Quantity:       quantity,
		UnitCost:       unitCost,
		OriginDocument: originDocument,
		Note:           note,
		OccurredAt:     time.Now(),
	}, nil
}

// WithActor sets the user who performed the movement
func (m *StockMovement) WithActor(actorID uuid.UUID) *StockMovement {
	m.ActorID = &actorID
	return m
}
