package fiscal

import (
	"context"

	"github.com/shopspring/decimal"
)

// SubmissionItem is a document line item shaped for the tax authority
type SubmissionItem struct {
	ProductCode string          `json:"product_code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// SubmissionPayment is a document payment entry shaped for the tax authority
type SubmissionPayment struct {
	Method string          `json:"method"`
	Value  decimal.Decimal `json:"value"`
}

// DocumentSubmission is the outbound issuance request sent to the tax authority
type DocumentSubmission struct {
	DocumentType  DocumentType        `json:"document_type"`
	Series        string              `json:"series"`
	Number        int64               `json:"number"`
	Environment   Environment         `json:"environment"`
	IssuerTaxID   string              `json:"issuer_tax_id"`
	CorporateName string              `json:"corporate_name"`
	ClientTaxID   string              `json:"client_tax_id,omitempty"`
	ClientName    string              `json:"client_name,omitempty"`
	TotalValue    decimal.Decimal     `json:"total_value"`
	Items         []SubmissionItem    `json:"items"`
	Payments      []SubmissionPayment `json:"payments"`
}

// Authorization is the successful result of a document submission
type Authorization struct {
	AccessKey   string
	Protocol    string
	RawDocument string
}

// Cancellation is the successful result of a cancellation submission
type Cancellation struct {
	Protocol string
}

// TaxAuthorityGateway is the opaque boundary to the external tax authority.
// Implementations must translate transport and authority failures into
// EXTERNAL_SERVICE_ERROR domain errors carrying the reported message.
type TaxAuthorityGateway interface {
	Submit(ctx context.Context, submission DocumentSubmission) (*Authorization, error)
	SubmitCancellation(ctx context.Context, accessKey, protocol, justification, issuerTaxID string) (*Cancellation, error)
}
