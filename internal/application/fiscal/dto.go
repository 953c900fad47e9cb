package fiscal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/fiscal"
)

// ==================== Document DTOs ====================

// IssueDocumentItemInput represents a line item in an issuance request
type IssueDocumentItemInput struct {
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	Description string          `json:"description" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// IssueDocumentPaymentInput represents a payment entry in an issuance request
type IssueDocumentPaymentInput struct {
	Method string          `json:"method" binding:"required"`
	Value  decimal.Decimal `json:"value" binding:"required"`
}

// IssueDocumentRequest represents a request to issue a fiscal document
type IssueDocumentRequest struct {
	SaleID      *uuid.UUID                  `json:"sale_id"`
	ClientTaxID string                      `json:"client_tax_id"`
	ClientName  string                      `json:"client_name" binding:"omitempty,max=200"`
	Items       []IssueDocumentItemInput    `json:"items" binding:"required,min=1"`
	Payments    []IssueDocumentPaymentInput `json:"payments" binding:"required,min=1"`
}

// CancelDocumentRequest represents a request to cancel an authorized document
type CancelDocumentRequest struct {
	Protocol      string     `json:"protocol" binding:"required"`
	Justification string     `json:"justification" binding:"required"`
	ActorID       *uuid.UUID `json:"actor_id" binding:"omitempty"`
}

// DocumentListFilter represents filter options for the document list
type DocumentListFilter struct {
	Search    string                 `form:"search"`
	Type      *fiscal.DocumentType   `form:"type"`
	Status    *fiscal.DocumentStatus `form:"status"`
	SaleID    *uuid.UUID             `form:"sale_id"`
	StartDate *time.Time             `form:"start_date"`
	EndDate   *time.Time             `form:"end_date"`
	Page      int                    `form:"page" binding:"omitempty,min=1"`
	PageSize  int                    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string                 `form:"order_by"`
	OrderDir  string                 `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DocumentResponse represents a fiscal document in API responses
type DocumentResponse struct {
	ID                    uuid.UUID       `json:"id"`
	DocumentType          string          `json:"document_type"`
	Series                string          `json:"series"`
	Number                int64           `json:"number"`
	AccessKey             string          `json:"access_key,omitempty"`
	AuthorizationProtocol string          `json:"authorization_protocol,omitempty"`
	CancellationProtocol  string          `json:"cancellation_protocol,omitempty"`
	Status                string          `json:"status"`
	TotalValue            decimal.Decimal `json:"total_value"`
	IssuedAt              *time.Time      `json:"issued_at,omitempty"`
	CanceledAt            *time.Time      `json:"canceled_at,omitempty"`
	CancellationReason    string          `json:"cancellation_reason,omitempty"`
	SaleID                *uuid.UUID      `json:"sale_id,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// CancelDocumentResponse represents the result of a cancellation
type CancelDocumentResponse struct {
	Success  bool           `json:"success"`
	Protocol string         `json:"protocol"`
	Cascade  *CascadeReport `json:"cascade,omitempty"`
}

// ToDocumentResponse converts a domain document to a response DTO
func ToDocumentResponse(doc *fiscal.FiscalDocument) DocumentResponse {
	return DocumentResponse{
		ID:                    doc.ID,
		DocumentType:          doc.DocumentType.String(),
		Series:                doc.Series,
		Number:                doc.Number,
		AccessKey:             doc.AccessKey,
		AuthorizationProtocol: doc.AuthorizationProtocol,
		CancellationProtocol:  doc.CancellationProtocol,
		Status:                doc.Status.String(),
		TotalValue:            doc.TotalValue,
		IssuedAt:              doc.IssuedAt,
		CanceledAt:            doc.CanceledAt,
		CancellationReason:    doc.CancellationReason,
		SaleID:                doc.SaleID,
		CreatedAt:             doc.CreatedAt,
		UpdatedAt:             doc.UpdatedAt,
	}
}
