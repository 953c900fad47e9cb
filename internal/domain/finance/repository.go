package finance

import (
	"context"

	"github.com/google/uuid"
)

// CashLedgerRepository defines operations on the append-only cash ledger
type CashLedgerRepository interface {
	Append(ctx context.Context, entry *CashLedgerEntry) error
}

// AccountReceivableRepository defines persistence operations for receivables
type AccountReceivableRepository interface {
	FindBySale(ctx context.Context, saleID uuid.UUID) (*AccountReceivable, error)
	Save(ctx context.Context, receivable *AccountReceivable) error
}
