package fiscal

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/shared"
)

// DocumentType represents the regulatory class of a fiscal document
type DocumentType string

const (
	// DocumentTypeReceipt is the consumer point-of-sale receipt document (NFC-e)
	DocumentTypeReceipt DocumentType = "RECEIPT"
	// DocumentTypeInvoice is the business-to-business invoice document (NF-e)
	DocumentTypeInvoice DocumentType = "INVOICE"
)

// IsValid checks if the type is a valid DocumentType
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeReceipt, DocumentTypeInvoice:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// DocumentStatus represents the status of a fiscal document
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "PENDING"
	DocumentStatusAuthorized DocumentStatus = "AUTHORIZED"
	DocumentStatusCanceled   DocumentStatus = "CANCELED"
	DocumentStatusRejected   DocumentStatus = "REJECTED"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusAuthorized, DocumentStatusCanceled, DocumentStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	switch s {
	case DocumentStatusPending:
		return target == DocumentStatusAuthorized || target == DocumentStatusRejected
	case DocumentStatusAuthorized:
		return target == DocumentStatusCanceled
	case DocumentStatusCanceled, DocumentStatusRejected:
		return false // Terminal states
	}
	return false
}

const (
	// AccessKeyLength is the length of the numeric access key assigned by the tax authority
	AccessKeyLength = 44
	// MinJustificationLength is the minimum length accepted for a cancellation justification
	MinJustificationLength = 15
)

var accessKeyPattern = regexp.MustCompile(`^\d{44}$`)

// FiscalDocument represents a fiscal document aggregate root.
// It owns the document status and the rules for issuance and cancellation.
// Documents are never deleted, only superseded by the CANCELED status.
type FiscalDocument struct {
	shared.BaseAggregateRoot
	DocumentType          DocumentType    `gorm:"type:varchar(10);not null;index"`
	Series                string          `gorm:"type:varchar(10);not null"`
	Number                int64           `gorm:"not null;index"`
	AccessKey             string          `gorm:"type:varchar(44);index"`
	AuthorizationProtocol string          `gorm:"type:varchar(30)"`
	CancellationProtocol  string          `gorm:"type:varchar(30)"`
	Status                DocumentStatus  `gorm:"type:varchar(15);not null;index"`
	TotalValue            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IssuedAt              *time.Time      `gorm:"type:timestamptz"`
	CanceledAt            *time.Time      `gorm:"type:timestamptz"`
	CancellationReason    string          `gorm:"type:varchar(255)"`
	RawPayload            string          `gorm:"type:text"`
	SaleID                *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (FiscalDocument) TableName() string {
	return "fiscal_documents"
}

// NewFiscalDocument creates a new pending fiscal document for a sale
func NewFiscalDocument(docType DocumentType, series string, number int64, totalValue decimal.Decimal, saleID *uuid.UUID) (*FiscalDocument, error) {
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Invalid document type")
	}
	if series == "" {
		return nil, shared.NewDomainError("INVALID_SERIES", "Document series cannot be empty")
	}
	if number <= 0 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number must be positive")
	}
	if totalValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Document total cannot be negative")
	}

	return &FiscalDocument{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DocumentType:      docType,
		Series:            series,
		Number:            number,
		Status:            DocumentStatusPending,
		TotalValue:        totalValue,
		SaleID:            saleID,
	}, nil
}

// Authorize records a successful authorization returned by the tax authority
func (d *FiscalDocument) Authorize(accessKey, protocol, rawPayload string) error {
	if !d.Status.CanTransitionTo(DocumentStatusAuthorized) {
		return shared.NewConflictError(fmt.Sprintf("Cannot authorize document in %s status", d.Status))
	}
	if !accessKeyPattern.MatchString(accessKey) {
		return shared.NewValidationError("Access key must be 44 numeric digits")
	}
	if protocol == "" {
		return shared.NewValidationError("Authorization protocol cannot be empty")
	}

	now := time.Now()
	d.Status = DocumentStatusAuthorized
	d.AccessKey = accessKey
	d.AuthorizationProtocol = protocol
	d.RawPayload = rawPayload
	d.IssuedAt = &now
	d.UpdatedAt = now

	return nil
}

// Reject records a rejection returned by the tax authority.
// REJECTED is terminal; a rejected document must be re-issued as a new one.
func (d *FiscalDocument) Reject(reason string) error {
	if !d.Status.CanTransitionTo(DocumentStatusRejected) {
		return shared.NewConflictError(fmt.Sprintf("Cannot reject document in %s status", d.Status))
	}

	d.Status = DocumentStatusRejected
	d.CancellationReason = reason
	d.UpdatedAt = time.Now()

	return nil
}

// ValidateCancellation checks whether the document can be canceled with the
// given protocol and justification at the given time. It does not mutate state.
func (d *FiscalDocument) ValidateCancellation(protocol, justification string, policy CancellationPolicy, now time.Time) error {
	switch d.Status {
	case DocumentStatusCanceled:
		return shared.NewConflictError("Document is already canceled")
	case DocumentStatusAuthorized:
		// eligible, keep validating
	default:
		return shared.NewConflictError("Document is not authorized")
	}
	if protocol != d.AuthorizationProtocol {
		return shared.NewValidationError("Protocol does not match the document authorization protocol")
	}
	if len(justification) < MinJustificationLength {
		return shared.NewValidationError(fmt.Sprintf("Justification requires minimum %d characters", MinJustificationLength))
	}
	if d.IssuedAt == nil {
		return shared.NewConflictError("Document has no issuance timestamp")
	}
	return policy.Validate(*d.IssuedAt, now)
}

// Cancel transitions the document from AUTHORIZED to CANCELED.
// The persistence layer must apply this transition with a conditional update
// on the previous status so the cancellation cascade runs at most once.
func (d *FiscalDocument) Cancel(cancellationProtocol, justification string, now time.Time) error {
	if !d.Status.CanTransitionTo(DocumentStatusCanceled) {
		if d.Status == DocumentStatusCanceled {
			return shared.NewConflictError("Document is already canceled")
		}
		return shared.NewConflictError("Document is not authorized")
	}

	d.Status = DocumentStatusCanceled
	d.CancellationProtocol = cancellationProtocol
	d.CancellationReason = justification
	d.CanceledAt = &now
	d.UpdatedAt = now

	return nil
}

// IsAuthorized returns true if the document is authorized
func (d *FiscalDocument) IsAuthorized() bool {
	return d.Status == DocumentStatusAuthorized
}

// IsCanceled returns true if the document is canceled
func (d *FiscalDocument) IsCanceled() bool {
	return d.Status == DocumentStatusCanceled
}

// IsTerminal returns true if the document is in a terminal state
func (d *FiscalDocument) IsTerminal() bool {
	return d.Status == DocumentStatusCanceled || d.Status == DocumentStatusRejected
}

// Label returns a human-readable identification used in audit trails,
// e.g. "RECEIPT 123" or "INVOICE 456"
func (d *FiscalDocument) Label() string {
	return fmt.Sprintf("%s %d", d.DocumentType, d.Number)
}
