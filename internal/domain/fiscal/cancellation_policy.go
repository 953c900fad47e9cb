package fiscal

import (
	"fmt"
	"time"

	"github.com/varejo/backend/internal/domain/shared"
)

// CancellationPolicy defines the time window in which a document of a given
// type may still be canceled after issuance. A zero window means no limit.
type CancellationPolicy struct {
	DocumentType DocumentType
	Window       time.Duration
}

// InvoiceCancellationWindow is the regulatory window for canceling an invoice document
const InvoiceCancellationWindow = 24 * time.Hour

// PolicyFor returns the cancellation policy for a document type.
// Receipt documents carry no time limit while invoice documents enforce 24
// hours. The asymmetry matches observed business behavior and is intentional;
// see DESIGN.md before changing it.
func PolicyFor(docType DocumentType) CancellationPolicy {
	switch docType {
	case DocumentTypeInvoice:
		return CancellationPolicy{DocumentType: docType, Window: InvoiceCancellationWindow}
	default:
		return CancellationPolicy{DocumentType: docType}
	}
}

// Validate checks whether a document issued at issuedAt may still be canceled at now
func (p CancellationPolicy) Validate(issuedAt, now time.Time) error {
	if p.Window <= 0 {
		return nil
	}
	if now.Sub(issuedAt) > p.Window {
		return shared.NewDomainError("DEADLINE_EXPIRED",
			fmt.Sprintf("Cancellation deadline expired (max %dh)", int(p.Window.Hours())))
	}
	return nil
}

// HasDeadline returns true if the policy enforces a cancellation window
func (p CancellationPolicy) HasDeadline() bool {
	return p.Window > 0
}
