package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"urbill/internal/domain"
	"urbill/internal/service"
)

// QuotationHandler handles quotation endpoints.
type QuotationHandler struct {
	quotationService service.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler.
func NewQuotationHandler(quotationService service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// statusInput is the DTO for status change requests.
type statusInput struct {
	Status string `json:"status" binding:"required"`
}

// Create handles POST /api/v1/quotations
func (h *QuotationHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input service.QuotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	q, err := h.quotationService.Create(c.Request.Context(), input, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, q)
}

// Get handles GET /api/v1/quotations/:id
func (h *QuotationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	q, err := h.quotationService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, q)
}

// List handles GET /api/v1/quotations
func (h *QuotationHandler) List(c *gin.Context) {
	var input service.ListQuotationsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	quotations, total, err := h.quotationService.List(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	page, limit := service.NormalizePage(input.Page, input.Limit)
	RespondPaginated(c, quotations, PagMeta{Total: total, Page: page, Limit: limit})
}

// Update handles PUT /api/v1/quotations/:id
func (h *QuotationHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.QuotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	q, err := h.quotationService.Update(c.Request.Context(), id, input, expectedUpdatedAt(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, q)
}

// ChangeStatus handles PATCH /api/v1/quotations/:id/status
func (h *QuotationHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	q, err := h.quotationService.ChangeStatus(c.Request.Context(), id, domain.QuotationStatus(input.Status))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, q)
}

// Delete handles DELETE /api/v1/quotations/:id
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "quotation deleted"})
}

// Send handles POST /api/v1/quotations/:id/send
func (h *QuotationHandler) Send(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	q, err := h.quotationService.Send(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, q)
}

// DownloadPDF handles GET /api/v1/quotations/:id/pdf
func (h *QuotationHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	pdfBytes, filename, err := h.quotationService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// ServicePresets handles GET /api/v1/service-presets
func (h *QuotationHandler) ServicePresets(c *gin.Context) {
	RespondOK(c, h.quotationService.ServicePresets())
}

// expectedUpdatedAt reads the If-Unmodified-Since-style concurrency guard from
// the X-Expected-Updated-At header. A missing or malformed header means the
// write is unconditional.
func expectedUpdatedAt(c *gin.Context) *time.Time {
	raw := c.GetHeader("X-Expected-Updated-At")
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}
	return &t
}
