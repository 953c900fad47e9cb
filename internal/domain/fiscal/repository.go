package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/varejo/backend/internal/domain/shared"
)

// FiscalDocumentRepository defines persistence operations for fiscal documents
type FiscalDocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FiscalDocument, error)
	FindByAccessKey(ctx context.Context, accessKey string) (*FiscalDocument, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]FiscalDocument, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, doc *FiscalDocument) error

	// ConfirmCancellation atomically transitions the document to CANCELED,
	// conditioned on the stored status still being AUTHORIZED. It returns a
	// CONFLICT error when the condition no longer holds, which is the guard
	// that keeps the reversal cascade from running twice.
	ConfirmCancellation(ctx context.Context, id uuid.UUID, cancellationProtocol, reason string, canceledAt time.Time) error

	// NextDocumentNumber returns the next running document number for a
	// (type, series) pair without persisting it. The counter only advances
	// via AdvanceDocumentNumber after the authority authorizes the document,
	// so rejected submissions do not consume numbers.
	NextDocumentNumber(ctx context.Context, docType DocumentType, series string) (int64, error)

	// AdvanceDocumentNumber persists the running counter for a (type, series)
	// pair after a successful authorization
	AdvanceDocumentNumber(ctx context.Context, docType DocumentType, series string, number int64) error
}
