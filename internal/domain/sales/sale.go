package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/shared"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDING"
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCanceled  SaleStatus = "CANCELED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// PaymentMethod represents how a sale payment was settled
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodPix    PaymentMethod = "PIX"
	PaymentMethodCredit PaymentMethod = "CREDIT"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodPix, PaymentMethodCredit:
		return true
	}
	return false
}

// SaleItem represents a line item in a sale. Immutable once created;
// the reversal cascade only reads it.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// SalePayment represents a payment applied to a sale
type SalePayment struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method PaymentMethod   `gorm:"type:varchar(10);not null"`
	Value  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SalePayment) TableName() string {
	return "sale_payments"
}

// Sale represents a completed point-of-sale transaction. The fiscal reversal
// cascade reads its items and payments and mutates only its status and
// observation trail.
type Sale struct {
	shared.BaseAggregateRoot
	Status         SaleStatus      `gorm:"type:varchar(10);not null;index"`
	Items          []SaleItem      `gorm:"foreignKey:SaleID"`
	Payments       []SalePayment   `gorm:"foreignKey:SaleID"`
	CashRegisterID *uuid.UUID      `gorm:"type:uuid;index"`
	ClientID       *uuid.UUID      `gorm:"type:uuid;index"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Observation    string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// Cancel marks the sale as canceled and appends an audit note with the
// cancellation moment and reason
func (s *Sale) Cancel(reason string, at time.Time) error {
	if s.Status == SaleStatusCanceled {
		return shared.NewConflictError("Sale is already canceled")
	}

	s.Status = SaleStatusCanceled
	s.AppendObservation(fmt.Sprintf("Canceled at %s - %s", at.Format("2006-01-02 15:04:05"), reason))
	s.UpdatedAt = at

	return nil
}

// AppendObservation adds a line to the sale's free-text audit trail
func (s *Sale) AppendObservation(note string) {
	if s.Observation == "" {
		s.Observation = note
		return
	}
	s.Observation = s.Observation + "\n" + note
}

// IsCanceled returns true if the sale is canceled
func (s *Sale) IsCanceled() bool {
	return s.Status == SaleStatusCanceled
}

// CreditPayment returns the first credit-method payment of the sale, if any
func (s *Sale) CreditPayment() *SalePayment {
	for idx := range s.Payments {
		if s.Payments[idx].Method == PaymentMethodCredit {
			return &s.Payments[idx]
		}
	}
	return nil
}

// HasOpenCashRegister returns true if the sale is linked to a cash register
func (s *Sale) HasOpenCashRegister() bool {
	return s.CashRegisterID != nil && *s.CashRegisterID != uuid.Nil
}

// HasClient returns true if the sale is linked to a client
func (s *Sale) HasClient() bool {
	return s.ClientID != nil && *s.ClientID != uuid.Nil
}
