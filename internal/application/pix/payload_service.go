package pix

import (
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/pix"
)

// BuildPayloadRequest represents a request to build an EMV payment payload
type BuildPayloadRequest struct {
	Key             string           `json:"key" binding:"required"`
	BeneficiaryName string           `json:"beneficiary_name" binding:"required,min=1,max=100"`
	City            string           `json:"city" binding:"required,min=1,max=100"`
	Amount          *decimal.Decimal `json:"amount"`
	TransactionID   string           `json:"transaction_id"`
	Description     string           `json:"description" binding:"omitempty,max=200"`
}

// BuildPayloadResponse represents a built EMV payload
type BuildPayloadResponse struct {
	Payload    string `json:"payload"`
	KeyType    string `json:"key_type"`
	KeyDisplay string `json:"key_display"`
}

// PayloadService builds copy-and-paste PIX payment payloads
type PayloadService struct{}

// NewPayloadService creates a new PayloadService
func NewPayloadService() *PayloadService {
	return &PayloadService{}
}

// Build assembles the EMV payload for a payment request
func (s *PayloadService) Build(req BuildPayloadRequest) (*BuildPayloadResponse, error) {
	payload, err := pix.BuildPayload(pix.PaymentDescriptor{
		Key:             req.Key,
		BeneficiaryName: req.BeneficiaryName,
		City:            req.City,
		Amount:          req.Amount,
		TransactionID:   req.TransactionID,
		Description:     req.Description,
	})
	if err != nil {
		return nil, err
	}

	key := pix.NormalizeKey(req.Key)
	return &BuildPayloadResponse{
		Payload:    payload,
		KeyType:    pix.DetectKeyType(key).String(),
		KeyDisplay: pix.FormatForDisplay(key),
	}, nil
}
