package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	fiscalapp "github.com/varejo/backend/internal/application/fiscal"
	"github.com/varejo/backend/internal/domain/fiscal"
	"github.com/varejo/backend/internal/domain/shared"
	"github.com/varejo/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader carries the client-chosen cancellation idempotency key
const IdempotencyKeyHeader = "X-Idempotency-Key"

// FiscalDocumentHandler handles fiscal document API endpoints
type FiscalDocumentHandler struct {
	BaseHandler
	docService  *fiscalapp.DocumentService
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	logger      *zap.Logger
}

// NewFiscalDocumentHandler creates a new FiscalDocumentHandler
func NewFiscalDocumentHandler(
	docService *fiscalapp.DocumentService,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	logger *zap.Logger,
) *FiscalDocumentHandler {
	return &FiscalDocumentHandler{
		docService:  docService,
		idempotency: idempotency,
		idemConfig:  idemConfig,
		logger:      logger,
	}
}

// RegisterRoutes registers all fiscal document routes
func (h *FiscalDocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	fiscalGroup := rg.Group("/fiscal")
	{
		fiscalGroup.POST("/receipts", h.IssueReceipt)
		fiscalGroup.POST("/invoices", h.IssueInvoice)

		documents := fiscalGroup.Group("/documents")
		{
			documents.GET("", h.List)
			documents.GET("/:id", h.GetByID)
			documents.GET("/access-key/:key", h.GetByAccessKey)
			documents.POST("/:id/cancel", h.Cancel)
		}
	}
}

// IssueReceipt issues a consumer receipt document
func (h *FiscalDocumentHandler) IssueReceipt(c *gin.Context) {
	h.issue(c, fiscal.DocumentTypeReceipt)
}

// IssueInvoice issues a full invoice document
func (h *FiscalDocumentHandler) IssueInvoice(c *gin.Context) {
	h.issue(c, fiscal.DocumentTypeInvoice)
}

func (h *FiscalDocumentHandler) issue(c *gin.Context, docType fiscal.DocumentType) {
	var req fiscalapp.IssueDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	doc, err := h.docService.Issue(c.Request.Context(), docType, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, doc)
}

// GetByID retrieves a fiscal document by its ID
func (h *FiscalDocumentHandler) GetByID(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.docService.GetByID(c.Request.Context(), documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// GetByAccessKey retrieves a fiscal document by its 44-digit access key
func (h *FiscalDocumentHandler) GetByAccessKey(c *gin.Context) {
	accessKey := c.Param("key")
	if accessKey == "" {
		h.BadRequest(c, "Access key is required")
		return
	}

	doc, err := h.docService.GetByAccessKey(c.Request.Context(), accessKey)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// List retrieves fiscal documents with filters and pagination
func (h *FiscalDocumentHandler) List(c *gin.Context) {
	var filter fiscalapp.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	docs, total, err := h.docService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	h.SuccessWithMeta(c, docs, total, page, pageSize)
}

// Cancel cancels an authorized fiscal document and runs the reversal cascade
func (h *FiscalDocumentHandler) Cancel(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req fiscalapp.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	// Claim the key before doing any work: SETNX-style semantics make the
	// claim atomic, so two concurrent requests with the same key cannot both
	// reach the tax authority.
	idemKey := c.GetHeader(IdempotencyKeyHeader)
	claimed := false
	if h.idempotencyEnabled() && idemKey != "" {
		acquired, err := h.idempotency.MarkProcessed(c.Request.Context(), idemKey, h.idemConfig.TTL)
		if err != nil {
			// Idempotency is best effort; a store outage must not block cancellations
			h.logger.Warn("Idempotency claim failed",
				zap.String("key", idemKey),
				zap.Error(err),
			)
		} else if !acquired {
			h.Conflict(c, "Cancellation request already processed")
			return
		} else {
			claimed = true
		}
	}

	result, err := h.docService.Cancel(c.Request.Context(), documentID, req)
	if err != nil {
		if claimed {
			// Release the claim so a retry with the same key is not refused
			if rerr := h.idempotency.Remove(c.Request.Context(), idemKey); rerr != nil {
				h.logger.Warn("Failed to release idempotency key",
					zap.String("key", idemKey),
					zap.Error(rerr),
				)
			}
		}
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *FiscalDocumentHandler) idempotencyEnabled() bool {
	return h.idempotency != nil && h.idemConfig.Enabled
}
