package fiscal

import (
	"github.com/varejo/backend/internal/domain/shared"
)

// Environment identifies the tax authority environment documents are submitted to
type Environment string

const (
	EnvironmentProduction   Environment = "production"
	EnvironmentHomologation Environment = "homologation"
)

// IsValid checks if the environment is valid
func (e Environment) IsValid() bool {
	return e == EnvironmentProduction || e == EnvironmentHomologation
}

// IssuerConfig holds the issuer identification and digital-certificate material
// required to submit documents to the tax authority. It is an immutable value
// constructed once from configuration and passed to the services that need it,
// never read from global state.
type IssuerConfig struct {
	TaxID               string
	CorporateName       string
	StateCode           string
	Environment         Environment
	CertificatePath     string
	CertificatePassword string
	ReceiptSeries       string
	InvoiceSeries       string
}

// Validate checks that the issuer is fully configured for document issuance
func (c IssuerConfig) Validate() error {
	if c.TaxID == "" {
		return shared.NewDomainError("CONFIGURATION_ERROR", "Issuer tax ID is not configured")
	}
	if c.CertificatePath == "" || c.CertificatePassword == "" {
		return shared.NewDomainError("CONFIGURATION_ERROR", "Issuer digital certificate is not configured")
	}
	if !c.Environment.IsValid() {
		return shared.NewDomainError("CONFIGURATION_ERROR", "Issuer environment must be production or homologation")
	}
	return nil
}

// SeriesFor returns the configured document series for a document type
func (c IssuerConfig) SeriesFor(docType DocumentType) string {
	if docType == DocumentTypeInvoice {
		return c.InvoiceSeries
	}
	return c.ReceiptSeries
}
