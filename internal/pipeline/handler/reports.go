package handler

import (
	"net/http"

	"recruit_pipeline_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// GetReport returns the report data as JSON.
// GET /api/v1/positions/:id/report
func (h *Handler) GetReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.BuildReport(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetReportPDF renders the report synchronously.
// GET /api/v1/positions/:id/report.pdf
func (h *Handler) GetReportPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	pdf, fileName, err := h.svc.RenderReportPDF(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ArchiveReport schedules background archiving of the report.
// POST /api/v1/positions/:id/report/archive
func (h *Handler) ArchiveReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.RequestReportArchive(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, result)
}

// ListReportArchives lists archived reports with download links.
// GET /api/v1/positions/:id/report/archives
func (h *Handler) ListReportArchives(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.ListReportArchives(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}
