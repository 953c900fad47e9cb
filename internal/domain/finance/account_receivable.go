package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/shared"
)

// ReceivableStatus represents the status of an account receivable
type ReceivableStatus string

const (
	ReceivableStatusPending  ReceivableStatus = "PENDING"
	ReceivableStatusReceived ReceivableStatus = "RECEIVED"
	ReceivableStatusCanceled ReceivableStatus = "CANCELED"
)

// IsValid checks if the status is a valid ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusPending, ReceivableStatusReceived, ReceivableStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of ReceivableStatus
func (s ReceivableStatus) String() string {
	return string(s)
}

// AccountReceivable represents an amount owed by a client for a credit sale
type AccountReceivable struct {
	shared.BaseAggregateRoot
	SaleID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	ClientID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Value      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Status     ReceivableStatus `gorm:"type:varchar(10);not null;index"`
	DueDate    *time.Time       `gorm:"type:timestamptz"`
	ReceivedAt *time.Time       `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (AccountReceivable) TableName() string {
	return "accounts_receivable"
}

// Cancel marks the receivable as canceled. Received receivables cannot be
// canceled; the money has already changed hands and needs a refund instead.
func (r *AccountReceivable) Cancel() error {
	switch r.Status {
	case ReceivableStatusCanceled:
		return shared.NewConflictError("Receivable is already canceled")
	case ReceivableStatusReceived:
		return shared.NewConflictError("Cannot cancel a received receivable")
	}

	r.Status = ReceivableStatusCanceled
	r.UpdatedAt = time.Now()
	return nil
}
