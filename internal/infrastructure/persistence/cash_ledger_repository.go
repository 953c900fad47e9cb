package persistence

import (
	"context"

	"github.com/varejo/backend/internal/domain/finance"
	"gorm.io/gorm"
)

// GormCashLedgerRepository implements CashLedgerRepository using GORM.
// The ledger is append-only; entries are never updated or deleted.
type GormCashLedgerRepository struct {
	db *gorm.DB
}

// NewGormCashLedgerRepository creates a new GormCashLedgerRepository
func NewGormCashLedgerRepository(db *gorm.DB) *GormCashLedgerRepository {
	return &GormCashLedgerRepository{db: db}
}

// Append appends an entry to the cash ledger
func (r *GormCashLedgerRepository) Append(ctx context.Context, entry *finance.CashLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Ensure GormCashLedgerRepository implements CashLedgerRepository
var _ finance.CashLedgerRepository = (*GormCashLedgerRepository)(nil)
