package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"urbill/internal/service"
)

// ReportHandler handles billing register export endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportRegister handles GET /api/v1/reports/register?format=csv|xlsx&from=...&to=...
// The from/to bounds are YYYY-MM-DD document dates; either may be omitted.
func (h *ReportHandler) ExportRegister(c *gin.Context) {
	input, ok := h.parseRange(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("billing-register-%s", time.Now().Format("2006-01-02"))

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		c.Status(http.StatusOK)
		if err := h.reportService.WriteRegisterCSV(c.Request.Context(), c.Writer, input); err != nil {
			HandleError(c, err)
		}
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.xlsx"`)
		c.Status(http.StatusOK)
		if err := h.reportService.WriteRegisterXLSX(c.Request.Context(), c.Writer, input); err != nil {
			HandleError(c, err)
		}
	default:
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "format must be csv or xlsx")
	}
}

func (h *ReportHandler) parseRange(c *gin.Context) (service.RegisterInput, bool) {
	var input service.RegisterInput
	for _, bound := range []struct {
		param string
		dst   **time.Time
	}{
		{"from", &input.From},
		{"to", &input.To},
	} {
		raw := c.Query(bound.param)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", bound.param+" must be a YYYY-MM-DD date")
			return input, false
		}
		*bound.dst = &t
	}
	return input, true
}
