package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varejo/backend/internal/domain/shared"
)

func createTestReceivable(status ReceivableStatus) *AccountReceivable {
	return &AccountReceivable{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            uuid.New(),
		ClientID:          uuid.New(),
		Value:             decimal.NewFromFloat(100.00),
		Status:            status,
	}
}

func TestAccountReceivable_Cancel(t *testing.T) {
	t.Run("cancels pending receivable", func(t *testing.T) {
		r := createTestReceivable(ReceivableStatusPending)
		require.NoError(t, r.Cancel())
		assert.Equal(t, ReceivableStatusCanceled, r.Status)
	})

	t.Run("cannot cancel received receivable", func(t *testing.T) {
		r := createTestReceivable(ReceivableStatusReceived)
		err := r.Cancel()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
	})

	t.Run("cannot cancel twice", func(t *testing.T) {
		r := createTestReceivable(ReceivableStatusCanceled)
		assert.Error(t, r.Cancel())
	})
}

func TestNewCashLedgerEntry(t *testing.T) {
	registerID := uuid.New()
	saleID := uuid.New()

	t.Run("creates outbound entry", func(t *testing.T) {
		entry, err := NewCashLedgerEntry(registerID, LedgerEntryKindOut, decimal.NewFromFloat(31.50),
			"Cancellation RECEIPT 123 - Erro de digitação no valor", &saleID)
		require.NoError(t, err)
		assert.Equal(t, LedgerEntryKindOut, entry.Kind)
		assert.Equal(t, &saleID, entry.SaleID)
	})

	t.Run("rejects nil register", func(t *testing.T) {
		_, err := NewCashLedgerEntry(uuid.Nil, LedgerEntryKindOut, decimal.NewFromInt(1), "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive value", func(t *testing.T) {
		_, err := NewCashLedgerEntry(registerID, LedgerEntryKindIn, decimal.Zero, "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		_, err := NewCashLedgerEntry(registerID, LedgerEntryKind("SIDEWAYS"), decimal.NewFromInt(1), "", nil)
		assert.Error(t, err)
	})
}
