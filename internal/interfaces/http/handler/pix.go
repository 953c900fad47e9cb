package handler

import (
	"github.com/gin-gonic/gin"

	pixapp "github.com/varejo/backend/internal/application/pix"
	"github.com/varejo/backend/internal/interfaces/http/middleware"
)

// PixHandler handles PIX payment payload endpoints
type PixHandler struct {
	BaseHandler
	payloadService *pixapp.PayloadService
}

// NewPixHandler creates a new PixHandler
func NewPixHandler(payloadService *pixapp.PayloadService) *PixHandler {
	return &PixHandler{payloadService: payloadService}
}

// RegisterRoutes registers all PIX routes
func (h *PixHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pixGroup := rg.Group("/pix")
	{
		pixGroup.POST("/payloads", h.BuildPayload)
	}
}

// BuildPayload builds a copy-and-paste EMV payment payload
func (h *PixHandler) BuildPayload(c *gin.Context) {
	var req pixapp.BuildPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	payload, err := h.payloadService.Build(req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payload)
}
