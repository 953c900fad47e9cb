package fiscal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/varejo/backend/internal/domain/fiscal"
	"github.com/varejo/backend/internal/domain/sales"
	"github.com/varejo/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DocumentArchive stores the raw authorized document outside the database.
// Archival is best effort; failures are logged and never block issuance.
type DocumentArchive interface {
	Store(ctx context.Context, accessKey string, rawDocument string) error
}

// DocumentService handles fiscal document issuance and cancellation
type DocumentService struct {
	docRepo  fiscal.FiscalDocumentRepository
	saleRepo sales.SaleRepository
	gateway  fiscal.TaxAuthorityGateway
	issuer   fiscal.IssuerConfig
	reversal *ReversalService
	archive  DocumentArchive
	logger   *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	docRepo fiscal.FiscalDocumentRepository,
	saleRepo sales.SaleRepository,
	gateway fiscal.TaxAuthorityGateway,
	issuer fiscal.IssuerConfig,
	reversal *ReversalService,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:  docRepo,
		saleRepo: saleRepo,
		gateway:  gateway,
		issuer:   issuer,
		reversal: reversal,
		logger:   logger,
	}
}

// SetArchive sets the optional raw-document archive
func (s *DocumentService) SetArchive(archive DocumentArchive) {
	s.archive = archive
}

// Issue submits a new document of the given type to the tax authority.
// On authorization the document is persisted as AUTHORIZED and the running
// number counter advances; on rejection it is persisted as REJECTED and the
// counter stays untouched, so the next issuance reuses the number.
func (s *DocumentService) Issue(ctx context.Context, docType fiscal.DocumentType, req IssueDocumentRequest) (*DocumentResponse, error) {
	if !docType.IsValid() {
		return nil, shared.NewValidationError("Invalid document type")
	}
	if err := s.issuer.Validate(); err != nil {
		return nil, err
	}

	// A document may reference the sale it formalizes; reject dangling links
	if req.SaleID != nil {
		sale, err := s.saleRepo.FindByID(ctx, *req.SaleID)
		if err != nil {
			return nil, err
		}
		if sale.IsCanceled() {
			return nil, shared.NewConflictError("Cannot issue a document for a canceled sale")
		}
	}

	series := s.issuer.SeriesFor(docType)
	number, err := s.docRepo.NextDocumentNumber(ctx, docType, series)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]fiscal.SubmissionItem, 0, len(req.Items))
	for _, item := range req.Items {
		lineTotal := item.Quantity.Mul(item.UnitPrice)
		total = total.Add(lineTotal)
		items = append(items, fiscal.SubmissionItem{
			ProductCode: item.ProductCode,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       lineTotal,
		})
	}
	payments := make([]fiscal.SubmissionPayment, 0, len(req.Payments))
	for _, payment := range req.Payments {
		payments = append(payments, fiscal.SubmissionPayment{
			Method: payment.Method,
			Value:  payment.Value,
		})
	}

	doc, err := fiscal.NewFiscalDocument(docType, series, number, total, req.SaleID)
	if err != nil {
		return nil, err
	}

	submission := fiscal.DocumentSubmission{
		DocumentType:  docType,
		Series:        series,
		Number:        number,
		Environment:   s.issuer.Environment,
		IssuerTaxID:   s.issuer.TaxID,
		CorporateName: s.issuer.CorporateName,
		ClientTaxID:   req.ClientTaxID,
		ClientName:    req.ClientName,
		TotalValue:    total,
		Items:         items,
		Payments:      payments,
	}

	auth, err := s.gateway.Submit(ctx, submission)
	if err != nil {
		if rejectErr := doc.Reject(err.Error()); rejectErr != nil {
			return nil, rejectErr
		}
		if saveErr := s.docRepo.Save(ctx, doc); saveErr != nil {
			s.logger.Error("failed to persist rejected document",
				zap.String("document", doc.Label()),
				zap.Error(saveErr))
			return nil, saveErr
		}
		s.logger.Warn("document rejected by tax authority",
			zap.String("document", doc.Label()),
			zap.Error(err))
		return nil, err
	}

	if err := doc.Authorize(auth.AccessKey, auth.Protocol, auth.RawDocument); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.docRepo.AdvanceDocumentNumber(ctx, docType, series, number); err != nil {
		// Authorized document is already saved; a stale counter only causes a
		// rejected duplicate number on the next issuance, which is recoverable
		s.logger.Error("failed to advance document number counter",
			zap.String("document", doc.Label()),
			zap.Error(err))
	}

	if s.archive != nil && auth.RawDocument != "" {
		if err := s.archive.Store(ctx, auth.AccessKey, auth.RawDocument); err != nil {
			s.logger.Warn("failed to archive raw document",
				zap.String("access_key", auth.AccessKey),
				zap.Error(err))
		}
	}

	s.logger.Info("document authorized",
		zap.String("document", doc.Label()),
		zap.String("access_key", auth.AccessKey),
		zap.String("protocol", auth.Protocol))

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Cancel cancels an authorized document and runs the reversal cascade over the
// linked sale. The status transition is applied with a conditional update so
// concurrent cancellations of the same document run the cascade at most once.
func (s *DocumentService) Cancel(ctx context.Context, documentID uuid.UUID, req CancelDocumentRequest) (*CancelDocumentResponse, error) {
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	policy := fiscal.PolicyFor(doc.DocumentType)
	if err := doc.ValidateCancellation(req.Protocol, req.Justification, policy, now); err != nil {
		return nil, err
	}

	cancellation, err := s.gateway.SubmitCancellation(ctx, doc.AccessKey, doc.AuthorizationProtocol, req.Justification, s.issuer.TaxID)
	if err != nil {
		// Nothing mutated yet; the caller can retry
		return nil, err
	}

	if err := s.docRepo.ConfirmCancellation(ctx, doc.ID, cancellation.Protocol, req.Justification, now); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "CONFLICT" {
			s.logger.Warn("document already canceled by a concurrent request",
				zap.String("document", doc.Label()))
		}
		return nil, err
	}

	s.logger.Info("document canceled",
		zap.String("document", doc.Label()),
		zap.String("protocol", cancellation.Protocol))

	// Best effort from here on: the document is canceled at the authority and
	// in the store, so cascade failures are reported, never rolled back
	report := s.reversal.Run(ctx, doc.SaleID, req.Justification, doc.Label(), req.ActorID)

	return &CancelDocumentResponse{
		Success:  true,
		Protocol: cancellation.Protocol,
		Cascade:  report,
	}, nil
}

// GetByID retrieves a fiscal document by ID
func (s *DocumentService) GetByID(ctx context.Context, documentID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// GetByAccessKey retrieves a fiscal document by its access key
func (s *DocumentService) GetByAccessKey(ctx context.Context, accessKey string) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByAccessKey(ctx, accessKey)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// List retrieves fiscal documents with filtering and pagination
func (s *DocumentService) List(ctx context.Context, filter DocumentListFilter) ([]DocumentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Type != nil {
		domainFilter.Filters["document_type"] = string(*filter.Type)
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.SaleID != nil {
		domainFilter.Filters["sale_id"] = *filter.SaleID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	docs, err := s.docRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.docRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, ToDocumentResponse(&docs[i]))
	}
	return responses, total, nil
}
