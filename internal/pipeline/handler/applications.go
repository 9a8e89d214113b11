package handler

import (
	"recruit_pipeline_backend/internal/pipeline/service"
	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// CreateOrGetApplication assigns an existing candidate to a position.
// POST /api/v1/applications
func (h *Handler) CreateOrGetApplication(c *gin.Context) {
	var req transport.CreateApplicationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateOrGetApplication(c.Request.Context(), service.CreateApplicationInput{
		CandidateID:         req.CandidateID,
		PositionID:          req.PositionID,
		AppliedCompensation: req.AppliedCompensation,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	respondApplication(c, result, nil)
}

// ApplyNewCandidate creates or reuses a candidate by email and applies.
// POST /api/v1/applications/new-candidate
func (h *Handler) ApplyNewCandidate(c *gin.Context) {
	var req transport.ApplyNewCandidateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.ApplyNewCandidate(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	candidateCreated := result.CandidateCreated
	respondApplication(c, result.ApplicationResult, &candidateCreated)
}

// GetApplication returns one application.
// GET /api/v1/applications/:id
func (h *Handler) GetApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetApplication(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListApplications lists a position's applications in apply order.
// GET /api/v1/positions/:id/applications
func (h *Handler) ListApplications(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.PageQuery
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.ListApplications(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// MoveStage moves an application to a pipeline stage.
// PATCH /api/v1/applications/:id/stage
func (h *Handler) MoveStage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.MoveStageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.MoveStage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListApplicationActivity returns the application timeline.
// GET /api/v1/applications/:id/timeline
func (h *Handler) ListApplicationActivity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.ListApplicationActivity(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}
