package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/shared"
)

// LedgerEntryKind represents the direction of a cash ledger entry
type LedgerEntryKind string

const (
	// LedgerEntryKindIn represents money entering the cash register
	LedgerEntryKindIn LedgerEntryKind = "IN"
	// LedgerEntryKindOut represents money leaving the cash register
	LedgerEntryKindOut LedgerEntryKind = "OUT"
)

// IsValid returns true if the entry kind is valid
func (k LedgerEntryKind) IsValid() bool {
	return k == LedgerEntryKindIn || k == LedgerEntryKindOut
}

// String returns the string representation of LedgerEntryKind
func (k LedgerEntryKind) String() string {
	return string(k)
}

// CashLedgerEntry is an append-only record of money moving through a cash register
type CashLedgerEntry struct {
	shared.BaseEntity
	CashRegisterID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind           LedgerEntryKind `gorm:"type:varchar(5);not null"`
	Value          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description    string          `gorm:"type:varchar(255)"`
	SaleID         *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CashLedgerEntry) TableName() string {
	return "cash_ledger_entries"
}

// NewCashLedgerEntry creates a new cash ledger entry
func NewCashLedgerEntry(cashRegisterID uuid.UUID, kind LedgerEntryKind, value decimal.Decimal, description string, saleID *uuid.UUID) (*CashLedgerEntry, error) {
	if cashRegisterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASH_REGISTER", "Cash register ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_KIND", "Invalid ledger entry kind")
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_VALUE", "Entry value must be positive")
	}

	return &CashLedgerEntry{
		BaseEntity:     shared.NewBaseEntity(),
		CashRegisterID: cashRegisterID,
		Kind:           kind,
		Value:          value,
		Description:    description,
		SaleID:         saleID,
	}, nil
}
