// Package pix implements the PIX/EMV payload codec: the TLV-encoded,
// CRC16-checksummed ASCII string consumers render as a payment QR code.
// All functions are pure and safe for concurrent use.
package pix

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/shared"
)

// EMV field identifiers, in payload order
const (
	idPayloadFormat        = "00"
	idPointOfInitiation    = "01"
	idMerchantAccountInfo  = "26"
	idMerchantCategoryCode = "52"
	idTransactionCurrency  = "53"
	idTransactionAmount    = "54"
	idCountryCode          = "58"
	idMerchantName         = "59"
	idMerchantCity         = "60"
	idAdditionalData       = "62"
	idCRC                  = "63"
)

// Merchant account info sub-fields
const (
	idAccountGUI         = "00"
	idAccountKey         = "01"
	idAccountDescription = "02"
)

// idReferenceLabel is the additional-data sub-field carrying the transaction id
const idReferenceLabel = "05"

const (
	payloadFormatValue   = "01"
	initiationStatic     = "12"
	pixGUI               = "BR.GOV.BCB.PIX"
	merchantCategoryNone = "0000"
	currencyBRL          = "986"
	countryBrazil        = "BR"
	defaultReference     = "***"
)

// Field length limits after normalization
const (
	maxMerchantNameLen = 25
	maxMerchantCityLen = 15
	maxDescriptionLen  = 72
	maxReferenceLen    = 25
	maxFieldValueLen   = 99
)

// PaymentDescriptor describes the payment a PIX payload encodes
type PaymentDescriptor struct {
	Key             string
	BeneficiaryName string
	City            string
	Amount          *decimal.Decimal
	TransactionID   string
	Description     string
}

// EncodeField produces one TLV field: id, two-digit zero-padded length, value.
// The caller must keep len(value) within maxFieldValueLen.
func EncodeField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// BuildPayload assembles the complete EMV payload for a payment descriptor.
// Field order is fixed by the EMV specification; the trailing CRC field covers
// every byte before it, including its own id and length ("6304").
func BuildPayload(d PaymentDescriptor) (string, error) {
	if strings.TrimSpace(d.Key) == "" {
		return "", shared.NewValidationError("PIX key is required")
	}
	if strings.TrimSpace(d.BeneficiaryName) == "" {
		return "", shared.NewValidationError("Beneficiary name is required")
	}
	if strings.TrimSpace(d.City) == "" {
		return "", shared.NewValidationError("City is required")
	}
	if d.Amount != nil && !d.Amount.IsPositive() {
		return "", shared.NewValidationError("Amount must be positive")
	}

	key := NormalizeKey(d.Key)
	if len(key) > maxFieldValueLen {
		return "", shared.NewValidationError("PIX key exceeds the maximum field length")
	}

	var b strings.Builder
	b.WriteString(EncodeField(idPayloadFormat, payloadFormatValue))
	if d.Amount != nil {
		b.WriteString(EncodeField(idPointOfInitiation, initiationStatic))
	}

	account := EncodeField(idAccountGUI, pixGUI) + EncodeField(idAccountKey, key)
	if desc := NormalizeText(d.Description, maxDescriptionLen); desc != "" {
		account += EncodeField(idAccountDescription, desc)
	}
	if len(account) > maxFieldValueLen {
		return "", shared.NewValidationError("Merchant account information exceeds the maximum field length")
	}
	b.WriteString(EncodeField(idMerchantAccountInfo, account))

	b.WriteString(EncodeField(idMerchantCategoryCode, merchantCategoryNone))
	b.WriteString(EncodeField(idTransactionCurrency, currencyBRL))
	if d.Amount != nil {
		b.WriteString(EncodeField(idTransactionAmount, d.Amount.StringFixed(2)))
	}
	b.WriteString(EncodeField(idCountryCode, countryBrazil))
	b.WriteString(EncodeField(idMerchantName, NormalizeText(d.BeneficiaryName, maxMerchantNameLen)))
	b.WriteString(EncodeField(idMerchantCity, NormalizeText(d.City, maxMerchantCityLen)))

	reference := normalizeReference(d.TransactionID, maxReferenceLen)
	if reference == "" {
		reference = defaultReference
	}
	b.WriteString(EncodeField(idAdditionalData, EncodeField(idReferenceLabel, reference)))

	// The CRC field closes the payload: the checksum is computed over
	// everything written so far plus the "6304" header itself
	b.WriteString(idCRC + "04")
	payload := b.String()
	return payload + CRC16(payload), nil
}
